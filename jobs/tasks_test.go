package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/northgate-io/northgate/testing"
)

func TestNewAuthEventTaskDefaultsTimestamp(t *testing.T) {
	task, err := NewAuthEventTask(AuthEventPayload{UserID: "u1", Action: "login", Success: true})
	require.NoError(t, err)
	assert.Equal(t, TaskTypeAuthEvent, task.Type())

	var payload AuthEventPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.False(t, payload.At.IsZero())
	assert.WithinDuration(t, time.Now().UTC(), payload.At, time.Minute)
}

func TestNewAuditPurgeTaskDefaultsRetention(t *testing.T) {
	task, err := NewAuditPurgeTask(0)
	require.NoError(t, err)
	assert.Equal(t, TaskTypeAuditPurge, task.Type())

	var payload AuditPurgePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, 90, payload.RetentionDays)
}

func TestHandleAuthEventSkipsMalformedPayload(t *testing.T) {
	writer := NewAuditWriter(nil, nil, nil)

	err := writer.HandleAuthEvent(context.Background(), asynq.NewTask(TaskTypeAuthEvent, []byte("not-json")))

	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
