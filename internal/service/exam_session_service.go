package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/medexam/medexam-backend/internal/config"
	"github.com/medexam/medexam-backend/internal/model"
	"github.com/medexam/medexam-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ExamSessionService handles session lifecycle: paper listing, start/resume,
// paper content delivery, and record history. Submitting is the
// ScoringService's job.
type ExamSessionService struct {
	sessionRepo  *repository.SessionRepository
	paperRepo    *repository.PaperRepository
	rubricRepo   *repository.RubricRepository
	questionRepo *repository.QuestionRepository
	answerRepo   *repository.AnswerRepository
	retakeRepo   *repository.RetakeRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewExamSessionService creates a new ExamSessionService.
func NewExamSessionService(
	sessionRepo *repository.SessionRepository,
	paperRepo *repository.PaperRepository,
	rubricRepo *repository.RubricRepository,
	questionRepo *repository.QuestionRepository,
	answerRepo *repository.AnswerRepository,
	retakeRepo *repository.RetakeRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *ExamSessionService {
	return &ExamSessionService{
		sessionRepo:  sessionRepo,
		paperRepo:    paperRepo,
		rubricRepo:   rubricRepo,
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		retakeRepo:   retakeRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "exam_session").Logger(),
	}
}

// AvailableStatus is the lobby status of a paper for a given student.
type AvailableStatus string

const (
	AvailableStatusOpen       AvailableStatus = "OPEN"
	AvailableStatusInProgress AvailableStatus = "IN_PROGRESS"
	AvailableStatusCompleted  AvailableStatus = "COMPLETED"
	AvailableStatusRetake     AvailableStatus = "RETAKE"
)

// AvailablePaper is a paper as shown in the student's exam list.
type AvailablePaper struct {
	PaperID         uuid.UUID       `json:"paper_id"`
	Name            string          `json:"name"`
	DurationMinutes int             `json:"duration_minutes"`
	TotalScore      int             `json:"total_score"`
	PassScore       int             `json:"pass_score"`
	QuestionCount   int             `json:"question_count"`
	Status          AvailableStatus `json:"status"`
	AchievedScore   *int            `json:"achieved_score,omitempty"`
}

// ListAvailablePapers returns published papers whose allowed categories
// include the user's, overlaid with the user's session state.
func (s *ExamSessionService) ListAvailablePapers(ctx context.Context, userID int, category string) ([]AvailablePaper, error) {
	papers, err := s.paperRepo.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published papers: %w", err)
	}

	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	// Newest session per paper wins the overlay.
	latest := make(map[uuid.UUID]*model.ExamSession, len(sessions))
	for i := range sessions {
		if _, ok := latest[sessions[i].PaperID]; !ok {
			latest[sessions[i].PaperID] = &sessions[i]
		}
	}

	out := make([]AvailablePaper, 0, len(papers))
	for _, pr := range papers {
		if !categoryAllowed(category, pr.Rubric.AllowedCategories) {
			continue
		}

		count, err := s.paperRepo.CountQuestions(ctx, pr.Paper.ID)
		if err != nil {
			return nil, fmt.Errorf("count questions: %w", err)
		}

		entry := AvailablePaper{
			PaperID:         pr.Paper.ID,
			Name:            pr.Paper.Name,
			DurationMinutes: pr.Rubric.DurationMinutes,
			TotalScore:      pr.Rubric.TotalScore,
			PassScore:       pr.Rubric.PassScore,
			QuestionCount:   count,
			Status:          AvailableStatusOpen,
		}

		if sess, ok := latest[pr.Paper.ID]; ok {
			switch {
			case sess.Status == model.SessionStatusInProgress:
				entry.Status = AvailableStatusInProgress
			case sess.Status.Terminal():
				entry.Status = AvailableStatusCompleted
				entry.AchievedScore = sess.AchievedScore
			}
		}

		if entry.Status == AvailableStatusCompleted {
			retake, err := s.retakeRepo.IsActive(ctx, userID, pr.Paper.ID)
			if err != nil {
				return nil, fmt.Errorf("check retake override: %w", err)
			}
			if retake {
				entry.Status = AvailableStatusRetake
			}
		}

		out = append(out, entry)
	}

	return out, nil
}

// StartSession starts a new exam session or resumes the in-progress one.
// Resume refreshes the start time and returns the same session ID — a page
// reload never creates a second row. The returned bool reports resume.
//
// The user's category comes from the verified token; the core never reads
// ambient identity state.
func (s *ExamSessionService) StartSession(ctx context.Context, userID int, category string, paperID uuid.UUID, examName string) (*model.ExamSession, bool, error) {
	// Resume path first: an in-progress session short-circuits everything,
	// including eligibility (it was checked when the session was created).
	existing, err := s.sessionRepo.GetActiveByUserAndPaper(ctx, userID, paperID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("check existing session: %w", err)
	}
	if existing != nil {
		startedAt, err := s.sessionRepo.TouchStart(ctx, existing.ID)
		if err != nil {
			return nil, false, fmt.Errorf("refresh start time: %w", err)
		}
		existing.StartedAt = startedAt
		s.cacheStartTime(ctx, userID, paperID, startedAt)
		return existing, true, nil
	}

	paper, err := s.paperRepo.GetByID(ctx, paperID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, ErrPaperNotFound
		}
		return nil, false, fmt.Errorf("get paper: %w", err)
	}
	if paper.Status != model.PaperStatusPublished {
		return nil, false, ErrPaperNotFound
	}

	// Cannot score without a rubric, and the eligibility gate needs its
	// allowed-category set, so a missing config fails before anything else.
	rubric, err := s.rubricRepo.GetByPaperID(ctx, paperID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, ErrConfigNotFound
		}
		return nil, false, fmt.Errorf("get rubric: %w", err)
	}

	hasTerminal, err := s.sessionRepo.HasTerminalAttempt(ctx, userID, paperID)
	if err != nil {
		return nil, false, fmt.Errorf("check prior attempts: %w", err)
	}

	forceRetake, err := s.retakeRepo.IsActive(ctx, userID, paperID)
	if err != nil {
		return nil, false, fmt.Errorf("check retake override: %w", err)
	}

	if err := evaluateEligibility(category, rubric.AllowedCategories, hasTerminal, forceRetake); err != nil {
		return nil, false, err
	}

	if examName == "" {
		examName = paper.Name
	}

	session := &model.ExamSession{
		UserID:     userID,
		PaperID:    paperID,
		ExamName:   examName,
		TotalScore: rubric.TotalScore,
		PassScore:  rubric.PassScore,
		Status:     model.SessionStatusInProgress,
		IsRetake:   forceRetake,
	}

	if err := s.sessionRepo.CreateActive(ctx, session); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost a concurrent start race: the partial unique index kept the
			// table clean, so adopt the winner's row as a resume.
			winner, fetchErr := s.sessionRepo.GetActiveByUserAndPaper(ctx, userID, paperID)
			if fetchErr != nil {
				return nil, false, fmt.Errorf("concurrent start detected, fetch failed: %w", fetchErr)
			}
			s.cacheStartTime(ctx, userID, paperID, winner.StartedAt)
			return winner, true, nil
		}
		return nil, false, fmt.Errorf("create session: %w", err)
	}

	s.cacheStartTime(ctx, userID, paperID, session.StartedAt)
	return session, false, nil
}

// VerifyActiveSession checks that the user holds an in-progress session for
// the paper. Gates paper content delivery.
func (s *ExamSessionService) VerifyActiveSession(ctx context.Context, userID int, paperID uuid.UUID) error {
	_, err := s.sessionRepo.GetActiveByUserAndPaper(ctx, userID, paperID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("check active session: %w", err)
	}
	return nil
}

// GetPaperContent returns the paper's questions without correct answers,
// served from the Redis payload cache with a PostgreSQL fallback.
func (s *ExamSessionService) GetPaperContent(ctx context.Context, paperID uuid.UUID) (*model.PaperPayload, error) {
	key := config.CacheKey.PaperPayloadKey(paperID.String())

	raw, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		payload := &model.PaperPayload{}
		if err := json.Unmarshal([]byte(raw), payload); err == nil {
			return payload, nil
		}
		// Corrupt cache entry: fall through and rebuild.
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get paper payload cache: %w", err)
	}

	paper, err := s.paperRepo.GetByID(ctx, paperID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaperNotFound
		}
		return nil, fmt.Errorf("get paper: %w", err)
	}

	rubric, err := s.rubricRepo.GetByPaperID(ctx, paperID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("get rubric: %w", err)
	}

	questions, err := s.questionRepo.ListForPaper(ctx, paperID)
	if err != nil {
		return nil, fmt.Errorf("list paper questions: %w", err)
	}

	payload := &model.PaperPayload{
		PaperID:         paper.ID,
		Name:            paper.Name,
		DurationMinutes: rubric.DurationMinutes,
		TotalScore:      rubric.TotalScore,
		Questions:       questions,
	}

	// Self-heal the cache so the next request is fast.
	if raw, err := json.Marshal(payload); err == nil {
		_ = s.rdb.Set(ctx, key, raw, 0).Err()
	}

	return payload, nil
}

// SessionState reports the remaining time for an in-progress session.
type SessionState struct {
	SessionID        uuid.UUID `json:"session_id"`
	PaperID          uuid.UUID `json:"paper_id"`
	RemainingSeconds float64   `json:"remaining_seconds"`
}

// GetSessionState computes remaining time from the cached start timestamp,
// falling back to the session row when the cache was evicted.
func (s *ExamSessionService) GetSessionState(ctx context.Context, userID int, paperID uuid.UUID) (*SessionState, error) {
	sess, err := s.sessionRepo.GetActiveByUserAndPaper(ctx, userID, paperID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get active session: %w", err)
	}

	rubric, err := s.rubricRepo.GetByPaperID(ctx, paperID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("get rubric: %w", err)
	}

	startedAt := sess.StartedAt
	key := config.CacheKey.SessionStartKey(userID, paperID.String())
	if val, err := s.rdb.Get(ctx, key).Result(); err == nil {
		if unix, parseErr := strconv.ParseInt(val, 10, 64); parseErr == nil {
			startedAt = time.Unix(unix, 0)
		}
	} else if errors.Is(err, redis.Nil) {
		// Self-heal from the database row.
		s.cacheStartTime(ctx, userID, paperID, startedAt)
	}

	remaining := time.Until(startedAt.Add(time.Duration(rubric.DurationMinutes) * time.Minute))
	if remaining < 0 {
		remaining = 0
	}

	return &SessionState{
		SessionID:        sess.ID,
		PaperID:          paperID,
		RemainingSeconds: remaining.Seconds(),
	}, nil
}

// ListRecords returns the user's exam history, newest first.
func (s *ExamSessionService) ListRecords(ctx context.Context, userID int) ([]model.ExamSession, error) {
	return s.sessionRepo.ListByUser(ctx, userID)
}

// GetRecordDetail returns one of the user's sessions with its graded
// answers. An ownership mismatch is reported as not-found but logged as a
// possible session-ID probe.
func (s *ExamSessionService) GetRecordDetail(ctx context.Context, userID int, sessionID uuid.UUID) (*model.ExamSession, []model.ExamAnswer, error) {
	sess, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("get session: %w", err)
	}

	if sess.UserID != userID {
		s.log.Warn().
			Int("user_id", userID).
			Str("session_id", sessionID.String()).
			Int("owner_id", sess.UserID).
			Msg("record access denied: ownership mismatch")
		return nil, nil, ErrSessionNotFound
	}

	answers, err := s.answerRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("list answers: %w", err)
	}

	return sess, answers, nil
}

// ListPaperResults returns paginated results for a paper (admin view).
func (s *ExamSessionService) ListPaperResults(ctx context.Context, paperID uuid.UUID, page, perPage int) ([]repository.PaperResult, int64, error) {
	return s.sessionRepo.ListResultsByPaper(ctx, paperID, page, perPage)
}

// cacheStartTime stores the session start as a Unix timestamp, best effort.
func (s *ExamSessionService) cacheStartTime(ctx context.Context, userID int, paperID uuid.UUID, startedAt time.Time) {
	key := config.CacheKey.SessionStartKey(userID, paperID.String())
	if err := s.rdb.Set(ctx, key, startedAt.Unix(), 0).Err(); err != nil {
		s.log.Warn().Err(err).Msg("cache session start time failed")
	}
}
