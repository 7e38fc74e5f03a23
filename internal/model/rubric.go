package model

import (
	"time"

	"github.com/google/uuid"
)

// Default per-question scores applied when the rubric leaves a weight unset.
const (
	DefaultChoiceScore   = 2
	DefaultMultiScore    = 4
	DefaultJudgmentScore = 1
)

// RubricConfig holds a paper's scoring rules: per-type question weights,
// total and pass scores, the time budget, and the staff categories allowed
// to sit the paper (comma-delimited).
type RubricConfig struct {
	ID                uuid.UUID `json:"id"`
	ConfigName        string    `json:"config_name"`
	DurationMinutes   int       `json:"duration_minutes"`
	TotalScore        int       `json:"total_score"`
	PassScore         int       `json:"pass_score"`
	ChoiceScore       *int      `json:"choice_score,omitempty"`
	MultiScore        *int      `json:"multi_score,omitempty"`
	JudgmentScore     *int      `json:"judgment_score,omitempty"`
	AllowedCategories string    `json:"allowed_categories"`
	CreatedAt         time.Time `json:"created_at"`
}

// WeightFor returns the score awarded for a correct answer of the given
// question type, falling back to the built-in defaults when unset.
func (c *RubricConfig) WeightFor(t QuestionType) int {
	switch t {
	case QuestionTypeChoice:
		if c.ChoiceScore != nil {
			return *c.ChoiceScore
		}
		return DefaultChoiceScore
	case QuestionTypeMulti:
		if c.MultiScore != nil {
			return *c.MultiScore
		}
		return DefaultMultiScore
	case QuestionTypeJudgment:
		if c.JudgmentScore != nil {
			return *c.JudgmentScore
		}
		return DefaultJudgmentScore
	default:
		return 0
	}
}
