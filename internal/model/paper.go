package model

import (
	"time"

	"github.com/google/uuid"
)

// PaperStatus enumerates the possible states of an exam paper.
type PaperStatus string

const (
	PaperStatusDraft     PaperStatus = "DRAFT"
	PaperStatusPublished PaperStatus = "PUBLISHED"
	PaperStatusArchived  PaperStatus = "ARCHIVED"
)

// Paper represents an assembled exam paper. The ordered question list lives
// in paper_questions; the scoring rules live in the paper's RubricConfig.
type Paper struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	ConfigID  uuid.UUID   `json:"config_id"`
	Status    PaperStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// PaperPayload is the Redis-cached paper content sent to students
// (no correct answers).
type PaperPayload struct {
	PaperID         uuid.UUID            `json:"paper_id"`
	Name            string               `json:"name"`
	DurationMinutes int                  `json:"duration_minutes"`
	TotalScore      int                  `json:"total_score"`
	Questions       []QuestionForStudent `json:"questions"`
}
