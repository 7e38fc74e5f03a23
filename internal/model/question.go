package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionTypeChoice   QuestionType = "CHOICE"
	QuestionTypeMulti    QuestionType = "MULTI"
	QuestionTypeJudgment QuestionType = "JUDGMENT"
)

// Question represents a question-bank entry. CorrectAnswer holds the
// canonical form: a single option index for CHOICE, a comma-joined sorted
// index list for MULTI, "true"/"false" for JUDGMENT.
type Question struct {
	ID            uuid.UUID       `json:"id"`
	QuestionType  QuestionType    `json:"question_type"`
	Content       string          `json:"content"`
	Options       json.RawMessage `json:"options"`
	CorrectAnswer string          `json:"correct_answer"`
}

// QuestionForStudent is a question without the correct answer, sent to
// students taking the exam.
type QuestionForStudent struct {
	ID           uuid.UUID       `json:"id"`
	QuestionType QuestionType    `json:"question_type"`
	Content      string          `json:"content"`
	Options      json.RawMessage `json:"options"`
	OrderNum     int             `json:"order_num"`
}
