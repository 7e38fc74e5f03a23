package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medexam/medexam-backend/internal/model"
)

// AuditRepository persists audit trail entries drained from the worker queue.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// InsertBatch bulk-inserts audit entries with UNNEST.
func (r *AuditRepository) InsertBatch(ctx context.Context, entries []model.AuditLog) error {
	if len(entries) == 0 {
		return nil
	}

	userIDs := make([]int, len(entries))
	actions := make([]string, len(entries))
	details := make([]string, len(entries))
	createdAts := make([]time.Time, len(entries))
	for i, e := range entries {
		userIDs[i] = e.UserID
		actions[i] = e.Action
		details[i] = e.Detail
		createdAts[i] = e.CreatedAt
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_logs (user_id, action, detail, created_at)
		 SELECT * FROM UNNEST($1::int[], $2::text[], $3::text[], $4::timestamptz[])`,
		userIDs, actions, details, createdAts,
	)
	return err
}
