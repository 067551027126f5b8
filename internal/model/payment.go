package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/deppfellow/dna-testing-api/internal/validation"
)

// MinSamplePaymentAmount is the smallest accepted payment amount.
const MinSamplePaymentAmount = 1000

// MaxReceiptSize bounds uploaded payment receipts.
const MaxReceiptSize = 5 << 20

// PaymentStatus tracks a sample payment through its lifecycle.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusReceived PaymentStatus = "receipt_uploaded"
)

// CreateSamplePaymentRequest is the body of POST /sample-payments.
type CreateSamplePaymentRequest struct {
	Amount   *float64 `json:"amount" validate:"required,min=1000"`
	SampleID string   `json:"sample_id" validate:"omitempty"`
	Note     string   `json:"note" validate:"omitempty,max=500"`
}

func (r *CreateSamplePaymentRequest) Validate() error {
	return validation.Validator().Struct(r)
}

func (r *CreateSamplePaymentRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"amount.required": "is required",
		"amount.min":      "must be a number greater than or equal to 1000",
	}
}

// UploadReceiptRequest identifies the payment a receipt belongs to. The
// file itself is read by the upload middleware. It also addresses the
// receipt download.
type UploadReceiptRequest struct {
	ID string `param:"id" json:"-" validate:"required,uuid"`
}

func (r *UploadReceiptRequest) Validate() error {
	return validation.Validator().Struct(r)
}

// SamplePayment records the intent to pay for a sample. No money moves.
type SamplePayment struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	SampleID  *string       `json:"sample_id" db:"sample_id"`
	Amount    float64       `json:"amount" db:"amount"`
	Note      *string       `json:"note" db:"note"`
	Status    PaymentStatus `json:"status" db:"status"`
	CreatedBy string        `json:"created_by" db:"created_by"`
	Receipt   *Receipt      `json:"receipt" db:"-"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" db:"updated_at"`
}

// Receipt is the metadata of a payment's uploaded receipt.
type Receipt struct {
	FileName   string    `json:"file_name"`
	MIMEType   string    `json:"mime_type"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ReceiptFile is a stored receipt with its content.
type ReceiptFile struct {
	FileName string `db:"receipt_file_name"`
	MIMEType string `db:"receipt_mime_type"`
	Data     []byte `db:"receipt_data"`
}
