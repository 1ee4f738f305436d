// Package jobs carries the asynchronous audit pipeline: authentication
// events enqueued by the authority and persisted by the worker.
package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeAuthEvent is the task type for recording authentication events.
	TaskTypeAuthEvent = "audit:auth_event"
	// TaskTypeAuditPurge is the task type for purging aged audit rows.
	TaskTypeAuditPurge = "audit:purge"
)

// AuthEventPayload describes one authentication decision.
type AuthEventPayload struct {
	UserID    string    `json:"user_id,omitempty"`
	Action    string    `json:"action"`
	Success   bool      `json:"success"`
	Reason    string    `json:"reason,omitempty"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	At        time.Time `json:"at"`
}

// NewAuthEventTask constructs an Asynq task for an authentication event.
func NewAuthEventTask(payload AuthEventPayload) (*asynq.Task, error) {
	if payload.At.IsZero() {
		payload.At = time.Now().UTC()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuthEvent, data), nil
}

// AuditPurgePayload bounds the retention of persisted audit rows.
type AuditPurgePayload struct {
	RetentionDays int `json:"retention_days"`
}

// NewAuditPurgeTask constructs the nightly purge task.
func NewAuditPurgeTask(retentionDays int) (*asynq.Task, error) {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	data, err := json.Marshal(AuditPurgePayload{RetentionDays: retentionDays})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuditPurge, data), nil
}

// Auditor is implemented by anything that can record an authentication
// event. A nil Auditor is a no-op everywhere it is accepted.
type Auditor interface {
	RecordAuthEvent(ctx context.Context, payload AuthEventPayload)
}
