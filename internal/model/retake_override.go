package model

import (
	"time"

	"github.com/google/uuid"
)

// RetakeOverride is an administrator-set flag letting a user redo a paper
// they already completed. At most one logical row per (user, paper); set by
// an admin, consumed (reset to false) when the authorized attempt finalizes.
type RetakeOverride struct {
	UserID      int       `json:"user_id"`
	PaperID     uuid.UUID `json:"paper_id"`
	ForceRetake bool      `json:"force_retake"`
	Remark      string    `json:"remark"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SetRetakeRequest is the admin payload for granting a retake.
type SetRetakeRequest struct {
	UserID  int       `json:"user_id" binding:"required,min=1"`
	PaperID uuid.UUID `json:"paper_id" binding:"required"`
	Remark  string    `json:"remark" binding:"max=500"`
}
