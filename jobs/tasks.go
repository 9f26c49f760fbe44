package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAnalyticsWarmup is the task type for pre-computing analytics reports.
	TaskAnalyticsWarmup = "analytics:warmup"
)

// WarmupPayload scopes an analytics warmup run. An empty AsOf means the
// handler's clock decides.
type WarmupPayload struct {
	AsOf string `json:"as_of,omitempty"`
}

// NewAnalyticsWarmupTask constructs an Asynq task.
func NewAnalyticsWarmupTask(payload WarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalyticsWarmup, data), nil
}
