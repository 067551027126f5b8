package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/deppfellow/dna-testing-api/internal/config"
	"github.com/deppfellow/dna-testing-api/internal/lib/email"
	"github.com/deppfellow/dna-testing-api/internal/model"
)

// RequestLogStore persists request logs.
type RequestLogStore interface {
	CreateRequestLog(ctx context.Context, entry *model.RequestLog) error
}

// EmailSender sends the notification emails.
type EmailSender interface {
	SendPaymentNotification(to string, p email.PaymentNotification) error
}

// InitHandlers wires the dependencies of the task handlers.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger, requestLogs RequestLogStore) {
	j.emailClient = email.NewClient(cfg, logger)
	j.requestLogs = requestLogs
	j.notificationEmail = cfg.Integration.NotificationEmail
}

func (j *JobService) handleRequestLogTask(ctx context.Context, t *asynq.Task) error {
	var entry model.RequestLog
	if err := json.Unmarshal(t.Payload(), &entry); err != nil {
		// Retrying cannot fix a malformed payload.
		return fmt.Errorf("failed to unmarshal request log payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := j.requestLogs.CreateRequestLog(ctx, &entry); err != nil {
		j.logger.Error().
			Str("type", TaskRequestLog).
			Str("request_id", entry.RequestID).
			Err(err).
			Msg("Failed to persist request log")
		return err
	}

	return nil
}

func (j *JobService) handlePaymentNotificationTask(ctx context.Context, t *asynq.Task) error {
	var p PaymentNotificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal payment notification payload: %v: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", TaskPaymentNotification).
		Str("payment_id", p.PaymentID).
		Msg("Processing payment notification task")

	err := j.emailClient.SendPaymentNotification(p.To, email.PaymentNotification{
		PaymentID: p.PaymentID,
		SampleID:  p.SampleID,
		Amount:    p.Amount,
		Note:      p.Note,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
	})
	if err != nil {
		j.logger.Error().
			Str("type", TaskPaymentNotification).
			Str("payment_id", p.PaymentID).
			Err(err).
			Msg("Failed to send payment notification")
		return err
	}

	j.logger.Info().
		Str("type", TaskPaymentNotification).
		Str("payment_id", p.PaymentID).
		Msg("Successfully sent payment notification")

	return nil
}
