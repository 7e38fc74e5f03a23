package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RetakeRepository handles force-retake override rows. One logical row per
// (user, paper); rows are upserted in place and never deleted.
type RetakeRepository struct {
	pool *pgxpool.Pool
}

// NewRetakeRepository creates a new RetakeRepository.
func NewRetakeRepository(pool *pgxpool.Pool) *RetakeRepository {
	return &RetakeRepository{pool: pool}
}

// Upsert sets the override flag for a (user, paper) pair. Idempotent.
func (r *RetakeRepository) Upsert(ctx context.Context, userID int, paperID uuid.UUID, remark string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO retake_overrides (user_id, paper_id, force_retake, remark, updated_at)
		 VALUES ($1, $2, TRUE, $3, NOW())
		 ON CONFLICT (user_id, paper_id)
		 DO UPDATE SET force_retake = TRUE, remark = EXCLUDED.remark, updated_at = NOW()`,
		userID, paperID, remark,
	)
	return err
}

// IsActive reports whether a force-retake override is currently set for the
// pair. A missing row means no override.
func (r *RetakeRepository) IsActive(ctx context.Context, userID int, paperID uuid.UUID) (bool, error) {
	var active bool
	err := r.pool.QueryRow(ctx,
		`SELECT force_retake
		 FROM retake_overrides
		 WHERE user_id = $1 AND paper_id = $2`, userID, paperID,
	).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return active, nil
}

// Clear resets the override inside q (typically the submit transaction, so
// consume-once happens atomically with the session finalization).
func (r *RetakeRepository) Clear(ctx context.Context, q Querier, userID int, paperID uuid.UUID) error {
	_, err := q.Exec(ctx,
		`UPDATE retake_overrides
		 SET force_retake = FALSE, updated_at = NOW()
		 WHERE user_id = $1 AND paper_id = $2 AND force_retake`,
		userID, paperID,
	)
	return err
}
