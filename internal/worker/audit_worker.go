package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/medexam/medexam-backend/internal/config"
	"github.com/medexam/medexam-backend/internal/model"
	"github.com/medexam/medexam-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	AuditBatchSize    = 100
	AuditBatchTimeout = 2 * time.Second
	AuditPollTimeout  = 1 * time.Second
)

// AuditWorker drains the audit queue in Redis and persists entries in
// batches. Losing an entry on a hard crash is acceptable; blocking a
// request on audit persistence is not.
type AuditWorker struct {
	rdb       *redis.Client
	auditRepo *repository.AuditRepository
	log       zerolog.Logger
}

func NewAuditWorker(rdb *redis.Client, auditRepo *repository.AuditRepository, log zerolog.Logger) *AuditWorker {
	return &AuditWorker{
		rdb:       rdb,
		auditRepo: auditRepo,
		log:       log.With().Str("component", "audit_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *AuditWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AuditWorker started")

	batch := make([]model.AuditLog, 0, AuditBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= AuditBatchSize || time.Since(lastFlush) >= AuditBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, AuditPollTimeout, config.WorkerKey.AuditLogQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var entry model.AuditLog
			if err := json.Unmarshal([]byte(item[1]), &entry); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, entry)
		}
	}
}

func (w *AuditWorker) flushSafe(ctx context.Context, batch []model.AuditLog) {
	if len(batch) == 0 {
		return
	}

	if err := w.auditRepo.InsertBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("bulk audit insert failed — requeueing")

		for _, entry := range batch {
			raw, _ := json.Marshal(entry)
			w.rdb.RPush(ctx, config.WorkerKey.AuditLogQueue, raw)
		}
	}
}
