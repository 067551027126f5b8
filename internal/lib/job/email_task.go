package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TaskPaymentNotification emails the operations inbox about a new payment.
const TaskPaymentNotification = "payment:notify"

// PaymentNotificationPayload is the JSON payload of TaskPaymentNotification.
type PaymentNotificationPayload struct {
	To        string    `json:"to"`
	PaymentID string    `json:"payment_id"`
	SampleID  string    `json:"sample_id,omitempty"`
	Amount    float64   `json:"amount"`
	Note      string    `json:"note,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPaymentNotificationTask builds the email task for p.
func NewPaymentNotificationTask(p PaymentNotificationPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskPaymentNotification,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(QueueDefault),
		asynq.Timeout(30*time.Second),
	), nil
}

// EnqueuePaymentNotification schedules the payment email. It is a no-op
// when no notification address is configured.
func (j *JobService) EnqueuePaymentNotification(ctx context.Context, p PaymentNotificationPayload) error {
	if p.To == "" {
		p.To = j.notificationEmail
	}
	if p.To == "" {
		j.logger.Debug().Str("payment_id", p.PaymentID).Msg("no notification email configured, skipping")
		return nil
	}

	task, err := NewPaymentNotificationTask(p)
	if err != nil {
		return fmt.Errorf("failed to build payment notification task: %w", err)
	}
	return j.enqueue(ctx, task)
}
