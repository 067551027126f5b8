package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deppfellow/dna-testing-api/internal/errs"
	"github.com/deppfellow/dna-testing-api/internal/lib/job"
	"github.com/deppfellow/dna-testing-api/internal/model"
)

type PaymentStore interface {
	CreatePayment(ctx context.Context, payment *model.SamplePayment) (*model.SamplePayment, error)
	GetPaymentByID(ctx context.Context, id uuid.UUID) (*model.SamplePayment, error)
	AttachReceipt(ctx context.Context, id uuid.UUID, file *model.UploadedFile) (*model.SamplePayment, error)
	GetReceipt(ctx context.Context, id uuid.UUID) (*model.ReceiptFile, error)
}

type PaymentNotifier interface {
	EnqueuePaymentNotification(ctx context.Context, p job.PaymentNotificationPayload) error
}

type PaymentService struct {
	payments PaymentStore
	notifier PaymentNotifier
}

func NewPaymentService(payments PaymentStore, notifier *job.JobService) *PaymentService {
	service := &PaymentService{payments: payments}
	if notifier != nil {
		service.notifier = notifier
	}
	return service
}

// CreatePayment records a pending payment and queues the notification
// email. A failed enqueue is logged and does not fail the request.
func (s *PaymentService) CreatePayment(ctx context.Context, user *model.AuthUser, req *model.CreateSamplePaymentRequest) (*model.SamplePayment, error) {
	payment := &model.SamplePayment{
		Amount:    *req.Amount,
		Status:    model.PaymentStatusPending,
		CreatedBy: user.ID,
	}
	if req.SampleID != "" {
		payment.SampleID = &req.SampleID
	}
	if req.Note != "" {
		payment.Note = &req.Note
	}

	created, err := s.payments.CreatePayment(ctx, payment)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		notification := job.PaymentNotificationPayload{
			PaymentID: created.ID.String(),
			SampleID:  req.SampleID,
			Amount:    created.Amount,
			Note:      req.Note,
			CreatedBy: created.CreatedBy,
			CreatedAt: created.CreatedAt,
		}
		if err := s.notifier.EnqueuePaymentNotification(ctx, notification); err != nil {
			zerolog.Ctx(ctx).Error().
				Err(err).
				Str("payment_id", created.ID.String()).
				Msg("failed to enqueue payment notification")
		}
	}

	return created, nil
}

// UploadReceipt attaches file to the payment. Only its creator or staff
// may do so.
func (s *PaymentService) UploadReceipt(ctx context.Context, user *model.AuthUser, req *model.UploadReceiptRequest, file *model.UploadedFile) (*model.SamplePayment, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, errs.NewNotFoundError("Sample Payment not found", true, nil)
	}

	if _, err := s.ownedPayment(ctx, user, id); err != nil {
		return nil, err
	}

	return s.payments.AttachReceipt(ctx, id, file)
}

// DownloadReceipt returns the receipt content of the payment under the
// same ownership rule as UploadReceipt.
func (s *PaymentService) DownloadReceipt(ctx context.Context, user *model.AuthUser, req *model.UploadReceiptRequest) (*model.ReceiptFile, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, errs.NewNotFoundError("Sample Payment not found", true, nil)
	}

	payment, err := s.ownedPayment(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if payment.Receipt == nil {
		return nil, errs.NewNotFoundError("Receipt not found", true, nil)
	}

	return s.payments.GetReceipt(ctx, id)
}

func (s *PaymentService) ownedPayment(ctx context.Context, user *model.AuthUser, id uuid.UUID) (*model.SamplePayment, error) {
	payment, err := s.payments.GetPaymentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payment.CreatedBy != user.ID && !user.Role.IsStaff() {
		return nil, errs.NewForbiddenError("You can only access receipts of your own payments", true)
	}

	return payment, nil
}
