package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/schoolbot-backend/internal/config"
	"github.com/stemsi/schoolbot-backend/internal/tools"
)

const (
	AuditBatchSize    = 100
	AuditBatchTimeout = 2 * time.Second
	AuditPollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

var auditColumns = []string{"tool", "tenant_id", "user_id", "role", "ok", "error_kind", "latency_ms", "invoked_at"}

// AuditSink is the part of *pgxpool.Pool the worker writes through.
type AuditSink interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// AuditWorker drains the audit queue into public.tool_invocations in batches.
type AuditWorker struct {
	sink AuditSink
	rdb  *redis.Client
	log  zerolog.Logger

	batchSize    int
	batchTimeout time.Duration
	pollTimeout  time.Duration
}

// NewAuditWorker creates a new AuditWorker.
func NewAuditWorker(sink AuditSink, rdb *redis.Client, log zerolog.Logger) *AuditWorker {
	return &AuditWorker{
		sink:         sink,
		rdb:          rdb,
		log:          log.With().Str("component", "audit_worker").Logger(),
		batchSize:    AuditBatchSize,
		batchTimeout: AuditBatchTimeout,
		pollTimeout:  AuditPollTimeout,
	}
}

// Start consumes the queue until ctx is cancelled, then flushes what it holds.
func (w *AuditWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AuditWorker started")

	buffer := make([]*tools.Invocation, 0, w.batchSize)
	lastFlush := time.Now()

	for {
		if len(buffer) > 0 &&
			(len(buffer) >= w.batchSize || time.Since(lastFlush) >= w.batchTimeout) {
			ok := w.flushSafe(ctx, buffer)
			buffer = buffer[:0]
			lastFlush = time.Now()
			if !ok {
				// Requeued rows come straight back; give the database a moment.
				sleepCtx(ctx, 2*time.Second)
			}
		}

		select {
		case <-ctx.Done():
			w.shutdown(buffer)
			return
		default:
		}

		result, err := w.rdb.BLPop(ctx, w.pollTimeout, config.WorkerKey.ToolAuditQueue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				w.shutdown(buffer)
				return
			}
			w.log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			sleepCtx(ctx, 3*time.Second)
			continue
		}

		if len(result) < 2 {
			continue
		}

		var inv tools.Invocation
		if err := json.Unmarshal([]byte(result[1]), &inv); err != nil {
			w.log.Error().Err(err).Msg("Discarding malformed audit record")
			continue
		}
		buffer = append(buffer, &inv)
	}
}

// flushSafe tries a bulk copy, then row-by-row inserts, then requeues. It
// reports false when any record had to be requeued.
func (w *AuditWorker) flushSafe(ctx context.Context, batch []*tools.Invocation) bool {
	if len(batch) == 0 {
		return true
	}
	if err := w.bulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk insert failed, attempting row-by-row recovery")
		return w.fallbackInsert(ctx, batch)
	}
	w.log.Debug().Int("count", len(batch)).Msg("Audit batch persisted")
	return true
}

func (w *AuditWorker) bulkInsert(ctx context.Context, batch []*tools.Invocation) error {
	rows := make([][]any, 0, len(batch))
	for _, inv := range batch {
		rows = append(rows, auditRow(inv))
	}
	_, err := w.sink.CopyFrom(ctx, pgx.Identifier{"public", "tool_invocations"}, auditColumns, pgx.CopyFromRows(rows))
	return err
}

func (w *AuditWorker) fallbackInsert(ctx context.Context, batch []*tools.Invocation) bool {
	requeueList := make([]*tools.Invocation, 0)

	for _, inv := range batch {
		_, err := w.sink.Exec(ctx,
			`INSERT INTO public.tool_invocations (tool, tenant_id, user_id, role, ok, error_kind, latency_ms, invoked_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			auditRow(inv)...,
		)
		if err != nil {
			w.log.Error().Err(err).Str("tool", inv.Tool).Msg("Insert failed, requeueing")
			requeueList = append(requeueList, inv)
		}
	}

	if len(requeueList) == 0 {
		return true
	}
	w.requeue(ctx, requeueList)
	return false
}

func (w *AuditWorker) requeue(ctx context.Context, items []*tools.Invocation) {
	ctx = context.WithoutCancel(ctx)
	pipe := w.rdb.Pipeline()
	for _, inv := range items {
		data, _ := json.Marshal(inv)
		pipe.RPush(ctx, config.WorkerKey.ToolAuditQueue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Int("count", len(items)).Msg("Failed to requeue audit records, data lost")
		return
	}
	w.log.Info().Int("count", len(items)).Msg("Requeued failed audit records")
}

func (w *AuditWorker) shutdown(buffer []*tools.Invocation) {
	w.log.Info().Msg("Worker stopping, flushing remaining buffer...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	w.flushSafe(shutdownCtx, buffer)
}

func auditRow(inv *tools.Invocation) []any {
	return []any{
		inv.Tool, inv.TenantID, inv.UserID, inv.Role, inv.OK, string(inv.ErrorKind),
		float64(inv.Latency) / float64(time.Millisecond), inv.At,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
