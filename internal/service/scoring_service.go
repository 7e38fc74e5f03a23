package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medexam/medexam-backend/internal/config"
	"github.com/medexam/medexam-backend/internal/model"
	"github.com/medexam/medexam-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ScoringService finalizes exam sessions. Submit is the only writer of
// answer rows and the only transition out of IN_PROGRESS, guarded so that
// exactly one concurrent caller scores a given session.
type ScoringService struct {
	pool         *pgxpool.Pool
	sessionRepo  *repository.SessionRepository
	answerRepo   *repository.AnswerRepository
	questionRepo *repository.QuestionRepository
	rubricRepo   *repository.RubricRepository
	retakeRepo   *repository.RetakeRepository
	paperRepo    *repository.PaperRepository
	audit        *AuditService
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewScoringService creates a new ScoringService.
func NewScoringService(
	pool *pgxpool.Pool,
	sessionRepo *repository.SessionRepository,
	answerRepo *repository.AnswerRepository,
	questionRepo *repository.QuestionRepository,
	rubricRepo *repository.RubricRepository,
	retakeRepo *repository.RetakeRepository,
	paperRepo *repository.PaperRepository,
	audit *AuditService,
	rdb *redis.Client,
	log zerolog.Logger,
) *ScoringService {
	return &ScoringService{
		pool:         pool,
		sessionRepo:  sessionRepo,
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
		rubricRepo:   rubricRepo,
		retakeRepo:   retakeRepo,
		paperRepo:    paperRepo,
		audit:        audit,
		rdb:          rdb,
		log:          log.With().Str("component", "scoring").Logger(),
	}
}

// Submit scores a session's answer set exactly once and finalizes the
// session. The terminal status is COMPLETED, or TIMEOUT when the client
// reports its clock expired — both run the same scoring path.
//
// Guard discipline: the session row is re-read under FOR UPDATE inside the
// transaction. A concurrent submit blocks on the lock, then observes the
// flipped status and fails with ErrAlreadySubmitted. The answer-rows check
// is a second net for replays that already committed.
func (s *ScoringService) Submit(ctx context.Context, sessionID uuid.UUID, userID int, req *model.SubmitSessionRequest) (*model.SubmitResult, error) {
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if sess.UserID != userID {
		// Possibly a tampered session ID; worth a distinct log line.
		s.log.Warn().
			Int("user_id", userID).
			Int("owner_id", sess.UserID).
			Str("session_id", sessionID.String()).
			Msg("submit denied: ownership mismatch")
		return nil, ErrSessionNotFound
	}

	if sess.Status != model.SessionStatusInProgress {
		return nil, ErrAlreadySubmitted
	}

	rubric, err := s.rubricRepo.GetByPaperID(ctx, sess.PaperID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("get rubric: %w", err)
	}

	// Grading is scoped to the paper's own question set: an answer keyed to
	// a question from another paper's bank is graded as unknown (zero), not
	// matched against that bank.
	paperQIDs, err := s.paperRepo.GetQuestionIDs(ctx, sess.PaperID)
	if err != nil {
		return nil, fmt.Errorf("load paper question set: %w", err)
	}
	onPaper := make(map[uuid.UUID]struct{}, len(paperQIDs))
	for _, id := range paperQIDs {
		onPaper[id] = struct{}{}
	}

	ids := make([]uuid.UUID, 0, len(req.Answers))
	for _, a := range req.Answers {
		if _, ok := onPaper[a.QuestionID]; ok {
			ids = append(ids, a.QuestionID)
		}
	}
	questions, err := s.questionRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin submit tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	locked, err := s.sessionRepo.GetByIDForUpdate(ctx, tx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("lock session: %w", err)
	}

	if locked.Status != model.SessionStatusInProgress {
		return nil, ErrAlreadySubmitted
	}

	hasAnswers, err := s.answerRepo.ExistsForSession(ctx, tx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("check existing answers: %w", err)
	}
	if hasAnswers {
		return nil, ErrAlreadySubmitted
	}

	graded, achieved, correctCount := gradeAnswers(sessionID, req.Answers, questions, rubric)

	finishedAt := time.Now()
	status := model.SessionStatusCompleted
	if req.Timeout {
		status = model.SessionStatusTimeout
	}

	if err := s.answerRepo.InsertBatch(ctx, tx, graded); err != nil {
		return nil, fmt.Errorf("insert answers: %w", err)
	}

	if err := s.sessionRepo.Finalize(ctx, tx, sessionID, status, achieved,
		durationMinutes(locked.StartedAt, finishedAt), finishedAt); err != nil {
		return nil, fmt.Errorf("finalize session: %w", err)
	}

	// Consume-once: an outstanding force-retake override is spent by the
	// attempt it authorized, in the same transaction.
	if err := s.retakeRepo.Clear(ctx, tx, userID, locked.PaperID); err != nil {
		return nil, fmt.Errorf("clear retake override: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit submit: %w", err)
	}

	// Post-commit side effects only: neither may roll back a scored exam.
	s.audit.LogAction(ctx, userID, "submit_exam",
		fmt.Sprintf("paper=%s session=%s score=%d/%d", locked.PaperID, sessionID, achieved, locked.TotalScore))
	_ = s.rdb.Del(ctx, config.CacheKey.SessionStartKey(userID, locked.PaperID.String())).Err()

	return &model.SubmitResult{
		SessionID:      sessionID,
		AchievedScore:  achieved,
		TotalScore:     locked.TotalScore,
		PassScore:      locked.PassScore,
		Passed:         achieved >= locked.PassScore,
		CorrectCount:   correctCount,
		TotalQuestions: len(graded),
		Status:         status,
	}, nil
}
