package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/schoolbot-backend/internal/config"
	"github.com/stemsi/schoolbot-backend/internal/tools"
)

// pushTimeout caps how long a tool call waits on Redis to enqueue its record.
const pushTimeout = 500 * time.Millisecond

// AuditQueue pushes tool invocations onto a Redis list for AuditWorker.
type AuditQueue struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewAuditQueue creates a new AuditQueue.
func NewAuditQueue(rdb *redis.Client, log zerolog.Logger) *AuditQueue {
	return &AuditQueue{
		rdb: rdb,
		log: log.With().Str("component", "audit_queue").Logger(),
	}
}

// Record enqueues inv. Failures are logged and dropped; auditing never fails
// a tool call.
func (q *AuditQueue) Record(ctx context.Context, inv tools.Invocation) {
	raw, err := json.Marshal(inv)
	if err != nil {
		q.log.Error().Err(err).Str("tool", inv.Tool).Msg("Failed to encode invocation")
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()

	if err := q.rdb.RPush(ctx, config.WorkerKey.ToolAuditQueue, raw).Err(); err != nil {
		q.log.Warn().Err(err).Str("tool", inv.Tool).Msg("Dropping audit record")
	}
}
