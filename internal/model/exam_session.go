package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus enumerates exam session states.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
	SessionStatusTimeout    SessionStatus = "TIMEOUT"
)

// Terminal reports whether the status is a final state. A terminal session
// is never reopened; a retake creates a new row.
func (s SessionStatus) Terminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusTimeout
}

// ExamSession represents one user's attempt at one paper. TotalScore and
// PassScore are copied from the rubric at start time so the record stays
// meaningful if the config is later edited.
type ExamSession struct {
	ID              uuid.UUID     `json:"id"`
	UserID          int           `json:"user_id"`
	PaperID         uuid.UUID     `json:"paper_id"`
	ExamName        string        `json:"exam_name"`
	StartedAt       time.Time     `json:"started_at"`
	FinishedAt      *time.Time    `json:"finished_at,omitempty"`
	DurationMinutes *int          `json:"duration_minutes,omitempty"`
	TotalScore      int           `json:"total_score"`
	PassScore       int           `json:"pass_score"`
	AchievedScore   *int          `json:"achieved_score,omitempty"`
	Status          SessionStatus `json:"status"`
	IsRetake        bool          `json:"is_retake"`
	Deleted         bool          `json:"-"`
}

// StartSessionRequest is the payload for starting (or resuming) a session.
// ExamName labels the attempt in records; empty defaults to the paper name.
type StartSessionRequest struct {
	ExamName string `json:"exam_name" binding:"max=255"`
}

// SubmittedAnswer is one answer in a submission. Answer must already be in
// the canonical encoding (e.g. "0,2" for a multi-select).
type SubmittedAnswer struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	Answer     string    `json:"answer"`
}

// SubmitSessionRequest is the payload for submitting a session. Timeout
// reports that the client-side clock expired; the session then finalizes
// as TIMEOUT instead of COMPLETED, through the same scoring path.
type SubmitSessionRequest struct {
	Answers []SubmittedAnswer `json:"answers" binding:"dive"`
	Timeout bool              `json:"timeout"`
}

// SubmitResult summarizes a scored submission.
type SubmitResult struct {
	SessionID      uuid.UUID     `json:"session_id"`
	AchievedScore  int           `json:"achieved_score"`
	TotalScore     int           `json:"total_score"`
	PassScore      int           `json:"pass_score"`
	Passed         bool          `json:"passed"`
	CorrectCount   int           `json:"correct_count"`
	TotalQuestions int           `json:"total_questions"`
	Status         SessionStatus `json:"status"`
}
