package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medexam/medexam-backend/internal/repository"
)

// RetakeService exposes the admin-facing retake override operations. The
// consume-once clear on submission lives in the ScoringService transaction.
type RetakeService struct {
	pool       *pgxpool.Pool
	retakeRepo *repository.RetakeRepository
	audit      *AuditService
}

// NewRetakeService creates a new RetakeService.
func NewRetakeService(pool *pgxpool.Pool, retakeRepo *repository.RetakeRepository, audit *AuditService) *RetakeService {
	return &RetakeService{pool: pool, retakeRepo: retakeRepo, audit: audit}
}

// SetOverride grants one more attempt at a paper the user already completed.
// Idempotent upsert.
func (s *RetakeService) SetOverride(ctx context.Context, adminID, userID int, paperID uuid.UUID, remark string) error {
	if err := s.retakeRepo.Upsert(ctx, userID, paperID, remark); err != nil {
		return fmt.Errorf("set retake override: %w", err)
	}
	s.audit.LogAction(ctx, adminID, "set_retake",
		fmt.Sprintf("user=%d paper=%s remark=%q", userID, paperID, remark))
	return nil
}

// ClearOverride revokes an unspent override.
func (s *RetakeService) ClearOverride(ctx context.Context, adminID, userID int, paperID uuid.UUID) error {
	if err := s.retakeRepo.Clear(ctx, s.pool, userID, paperID); err != nil {
		return fmt.Errorf("clear retake override: %w", err)
	}
	s.audit.LogAction(ctx, adminID, "clear_retake",
		fmt.Sprintf("user=%d paper=%s", userID, paperID))
	return nil
}

// GetOverride reports whether an override is currently active.
func (s *RetakeService) GetOverride(ctx context.Context, userID int, paperID uuid.UUID) (bool, error) {
	return s.retakeRepo.IsActive(ctx, userID, paperID)
}
