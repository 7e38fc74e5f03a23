package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/medexam/medexam-backend/internal/config"
	"github.com/medexam/medexam-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AuditService emits best-effort audit trail entries. Entries are queued in
// Redis and drained by the audit worker; a queue failure is logged and
// dropped, never propagated to the caller.
type AuditService struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(rdb *redis.Client, log zerolog.Logger) *AuditService {
	return &AuditService{
		rdb: rdb,
		log: log.With().Str("component", "audit").Logger(),
	}
}

// LogAction queues an audit entry. Fire-and-forget.
func (s *AuditService) LogAction(ctx context.Context, userID int, action, detail string) {
	entry := model.AuditLog{
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now(),
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal audit entry")
		return
	}

	if err := s.rdb.RPush(ctx, config.WorkerKey.AuditLogQueue, raw).Err(); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("queue audit entry failed")
	}
}
