package tasks

import (
	"encoding/json"

	"skillswap/models"

	"github.com/hibiken/asynq"
)

const TypeGenerateSummary = "summary:generate"

// NewSummaryTask builds the queue task that asks the worker to produce a
// post-session report for a completed booking.
func NewSummaryTask(payload models.SummaryPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeGenerateSummary, b)
	opts := []asynq.Option{asynq.MaxRetry(3)}

	return task, opts, nil
}
