package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup refreshes the last-known-good payloads of every
	// tenant and entity.
	TaskDashboardWarmup = "dashboard:warmup"
)

// WarmupPayload scopes a warmup run. An empty PeriodID uses the default period.
type WarmupPayload struct {
	PeriodID string `json:"period_id,omitempty"`
}

// NewWarmupTask constructs an Asynq task.
func NewWarmupTask(payload WarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}
