package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medexam/medexam-backend/internal/model"
)

// PaperResult combines user data with their session details for admin review.
type PaperResult struct {
	UserID        int                 `json:"user_id"`
	Name          string              `json:"name"`
	Category      string              `json:"category"`
	AchievedScore *int                `json:"achieved_score"`
	PassScore     int                 `json:"pass_score"`
	Status        model.SessionStatus `json:"status"`
	IsRetake      bool                `json:"is_retake"`
	StartedAt     time.Time           `json:"started_at"`
	FinishedAt    *time.Time          `json:"finished_at"`
}

// SessionRepository handles exam session data access.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `id, user_id, paper_id, exam_name, started_at, finished_at,
	duration_minutes, total_score, pass_score, achieved_score, status, is_retake, deleted`

func scanSession(row interface{ Scan(dest ...any) error }) (*model.ExamSession, error) {
	s := &model.ExamSession{}
	err := row.Scan(
		&s.ID, &s.UserID, &s.PaperID, &s.ExamName, &s.StartedAt, &s.FinishedAt,
		&s.DurationMinutes, &s.TotalScore, &s.PassScore, &s.AchievedScore,
		&s.Status, &s.IsRetake, &s.Deleted,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetActiveByUserAndPaper retrieves the single in-progress session for a
// (user, paper) pair, if any.
func (r *SessionRepository) GetActiveByUserAndPaper(ctx context.Context, userID int, paperID uuid.UUID) (*model.ExamSession, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM exam_sessions
		 WHERE user_id = $1 AND paper_id = $2 AND status = $3 AND NOT deleted`,
		userID, paperID, model.SessionStatusInProgress,
	))
}

// HasTerminalAttempt reports whether the user already has a completed or
// timed-out attempt at the paper. Soft-deleted rows do not count.
func (r *SessionRepository) HasTerminalAttempt(ctx context.Context, userID int, paperID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM exam_sessions
			WHERE user_id = $1 AND paper_id = $2
			  AND status IN ($3, $4) AND NOT deleted
		)`,
		userID, paperID, model.SessionStatusCompleted, model.SessionStatusTimeout,
	).Scan(&exists)
	return exists, err
}

// CreateActive inserts a new in-progress session. The partial unique index
// on (user_id, paper_id) WHERE status = 'IN_PROGRESS' makes concurrent
// starts race-safe: the loser gets pgx.ErrNoRows and should re-read the
// winner's row instead.
func (r *SessionRepository) CreateActive(ctx context.Context, s *model.ExamSession) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO exam_sessions
			(user_id, paper_id, exam_name, total_score, pass_score, status, is_retake)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, paper_id) WHERE status = 'IN_PROGRESS' DO NOTHING
		 RETURNING id, started_at`,
		s.UserID, s.PaperID, s.ExamName, s.TotalScore, s.PassScore,
		model.SessionStatusInProgress, s.IsRetake,
	).Scan(&s.ID, &s.StartedAt)
}

// TouchStart refreshes the start time of a resumed session and returns the
// new value.
func (r *SessionRepository) TouchStart(ctx context.Context, sessionID uuid.UUID) (time.Time, error) {
	var startedAt time.Time
	err := r.pool.QueryRow(ctx,
		`UPDATE exam_sessions
		 SET started_at = NOW()
		 WHERE id = $1
		 RETURNING started_at`, sessionID,
	).Scan(&startedAt)
	return startedAt, err
}

// GetByID retrieves a session by primary key.
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ExamSession, error) {
	return scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM exam_sessions
		 WHERE id = $1 AND NOT deleted`, id,
	))
}

// GetByIDForUpdate re-reads a session inside tx with a row lock. A second
// concurrent submit blocks here until the first transaction resolves.
func (r *SessionRepository) GetByIDForUpdate(ctx context.Context, tx Querier, id uuid.UUID) (*model.ExamSession, error) {
	return scanSession(tx.QueryRow(ctx,
		`SELECT `+sessionColumns+`
		 FROM exam_sessions
		 WHERE id = $1 AND NOT deleted
		 FOR UPDATE`, id,
	))
}

// Finalize flips a locked session to its terminal state. Must run inside the
// same transaction that inserted the answer rows.
func (r *SessionRepository) Finalize(ctx context.Context, tx Querier, id uuid.UUID, status model.SessionStatus, achievedScore, durationMinutes int, finishedAt time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE exam_sessions
		 SET status = $2, achieved_score = $3, duration_minutes = $4, finished_at = $5
		 WHERE id = $1`,
		id, status, achievedScore, durationMinutes, finishedAt,
	)
	return err
}

// ListByUser retrieves a user's session history, newest first.
func (r *SessionRepository) ListByUser(ctx context.Context, userID int) ([]model.ExamSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM exam_sessions
		 WHERE user_id = $1 AND NOT deleted
		 ORDER BY started_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.ExamSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// ListResultsByPaper retrieves paginated results for a paper, joined with
// user identity for admin review.
func (r *SessionRepository) ListResultsByPaper(ctx context.Context, paperID uuid.UUID, page, perPage int) ([]PaperResult, int64, error) {
	offset := (page - 1) * perPage

	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM exam_sessions es
		 WHERE es.paper_id = $1 AND NOT es.deleted`, paperID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, u.category,
		        es.achieved_score, es.pass_score, es.status, es.is_retake,
		        es.started_at, es.finished_at
		 FROM exam_sessions es
		 JOIN users u ON es.user_id = u.id
		 WHERE es.paper_id = $1 AND NOT es.deleted
		 ORDER BY es.started_at DESC
		 LIMIT $2 OFFSET $3`, paperID, perPage, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []PaperResult
	for rows.Next() {
		var pr PaperResult
		if err := rows.Scan(
			&pr.UserID, &pr.Name, &pr.Category,
			&pr.AchievedScore, &pr.PassScore, &pr.Status, &pr.IsRetake,
			&pr.StartedAt, &pr.FinishedAt,
		); err != nil {
			return nil, 0, err
		}
		results = append(results, pr)
	}
	return results, total, rows.Err()
}
