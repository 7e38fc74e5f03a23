package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamAnswer is one graded answer within a session. CorrectAnswer is copied
// at grading time so later question edits do not rewrite history. Rows are
// written once, in the finalization transaction, and never updated.
type ExamAnswer struct {
	ID            uuid.UUID `json:"id"`
	SessionID     uuid.UUID `json:"session_id"`
	QuestionID    uuid.UUID `json:"question_id"`
	UserAnswer    string    `json:"user_answer"`
	CorrectAnswer string    `json:"correct_answer"`
	IsCorrect     bool      `json:"is_correct"`
	Score         int       `json:"score"`
	CreatedAt     time.Time `json:"created_at"`
}
