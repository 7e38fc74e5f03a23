package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medexam/medexam-backend/internal/model"
)

// AnswerRepository handles graded answer rows. The set of rows for a session
// is written exactly once, inside the finalization transaction, and is
// read-only afterwards.
type AnswerRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerRepository creates a new AnswerRepository.
func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

// ExistsForSession reports whether any answer rows have been recorded for
// the session. Used inside the submit transaction as a replay guard.
func (r *AnswerRepository) ExistsForSession(ctx context.Context, q Querier, sessionID uuid.UUID) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM exam_answers WHERE session_id = $1)`, sessionID,
	).Scan(&exists)
	return exists, err
}

// InsertBatch writes the full graded answer set inside tx.
func (r *AnswerRepository) InsertBatch(ctx context.Context, tx Querier, answers []model.ExamAnswer) error {
	for i := range answers {
		a := &answers[i]
		if _, err := tx.Exec(ctx,
			`INSERT INTO exam_answers
				(session_id, question_id, user_answer, correct_answer, is_correct, score)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			a.SessionID, a.QuestionID, a.UserAnswer, a.CorrectAnswer, a.IsCorrect, a.Score,
		); err != nil {
			return err
		}
	}
	return nil
}

// ListBySession retrieves a session's graded answers in insertion order.
func (r *AnswerRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.ExamAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, question_id, user_answer, correct_answer, is_correct, score, created_at
		 FROM exam_answers
		 WHERE session_id = $1
		 ORDER BY created_at ASC, id ASC`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []model.ExamAnswer
	for rows.Next() {
		var a model.ExamAnswer
		if err := rows.Scan(
			&a.ID, &a.SessionID, &a.QuestionID, &a.UserAnswer,
			&a.CorrectAnswer, &a.IsCorrect, &a.Score, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
