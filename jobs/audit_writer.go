package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/northgate-io/northgate/internal/jobs"
)

// AuditWriter persists authentication events processed by the worker.
type AuditWriter struct {
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewAuditWriter constructs an AuditWriter. metrics may be nil.
func NewAuditWriter(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *AuditWriter {
	return &AuditWriter{pool: pool, logger: logger, metrics: metrics}
}

// HandleAuthEvent processes TaskTypeAuthEvent tasks.
func (w *AuditWriter) HandleAuthEvent(ctx context.Context, t *asynq.Task) error {
	tracker := w.metrics.Track("audit_auth_event")
	var payload AuthEventPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		_ = tracker.End(err)
		return asynq.SkipRetry
	}
	_, err := w.pool.Exec(ctx,
		`INSERT INTO auth_audit_log (user_id, action, success, reason, ip, user_agent, occurred_at)
		 VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7)`,
		payload.UserID, payload.Action, payload.Success, payload.Reason,
		payload.IP, payload.UserAgent, payload.At.UTC())
	if err != nil {
		return tracker.End(fmt.Errorf("insert auth audit event: %w", err))
	}
	return tracker.End(nil)
}

// HandleAuditPurge processes TaskTypeAuditPurge tasks.
func (w *AuditWriter) HandleAuditPurge(ctx context.Context, t *asynq.Task) error {
	tracker := w.metrics.Track("audit_purge")
	var payload AuditPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		_ = tracker.End(err)
		return asynq.SkipRetry
	}
	if payload.RetentionDays <= 0 {
		payload.RetentionDays = 90
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -payload.RetentionDays)
	tag, err := w.pool.Exec(ctx, `DELETE FROM auth_audit_log WHERE occurred_at < $1`, cutoff)
	if err != nil {
		return tracker.End(fmt.Errorf("purge auth audit log: %w", err))
	}
	if w.logger != nil {
		w.logger.Info("audit purge complete",
			slog.Int64("deleted", tag.RowsAffected()),
			slog.Time("cutoff", cutoff))
	}
	return tracker.End(nil)
}
