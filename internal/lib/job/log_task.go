package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/deppfellow/dna-testing-api/internal/model"
)

// TaskRequestLog persists one served HTTP request.
const TaskRequestLog = "log:request"

// NewRequestLogTask builds a low priority task carrying entry as JSON.
func NewRequestLogTask(entry *model.RequestLog) (*asynq.Task, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request log payload: %w", err)
	}

	return asynq.NewTask(
		TaskRequestLog,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueLow),
		asynq.Timeout(10*time.Second),
	), nil
}

// EnqueueRequestLog schedules entry to be written to the request log.
func (j *JobService) EnqueueRequestLog(ctx context.Context, entry *model.RequestLog) error {
	task, err := NewRequestLogTask(entry)
	if err != nil {
		return err
	}
	return j.enqueue(ctx, task)
}
