package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/dna-testing-api/internal/model"
	"github.com/deppfellow/dna-testing-api/internal/sqlerr"
)

const samplePaymentsTable = "sample_payments"

// paymentColumns leaves out receipt_data, which is only read on download.
const paymentColumns = `
	id, sample_id, amount, note, status, created_by,
	receipt_file_name, receipt_mime_type, receipt_size, receipt_uploaded_at,
	created_at, updated_at
`

type paymentRow struct {
	ID                uuid.UUID           `db:"id"`
	SampleID          *string             `db:"sample_id"`
	Amount            float64             `db:"amount"`
	Note              *string             `db:"note"`
	Status            model.PaymentStatus `db:"status"`
	CreatedBy         string              `db:"created_by"`
	ReceiptFileName   *string             `db:"receipt_file_name"`
	ReceiptMIMEType   *string             `db:"receipt_mime_type"`
	ReceiptSize       *int64              `db:"receipt_size"`
	ReceiptUploadedAt *time.Time          `db:"receipt_uploaded_at"`
	CreatedAt         time.Time           `db:"created_at"`
	UpdatedAt         time.Time           `db:"updated_at"`
}

func (row paymentRow) toModel() *model.SamplePayment {
	payment := &model.SamplePayment{
		ID:        row.ID,
		SampleID:  row.SampleID,
		Amount:    row.Amount,
		Note:      row.Note,
		Status:    row.Status,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}

	if row.ReceiptFileName != nil && row.ReceiptUploadedAt != nil {
		receipt := &model.Receipt{
			FileName:   *row.ReceiptFileName,
			UploadedAt: *row.ReceiptUploadedAt,
		}
		if row.ReceiptMIMEType != nil {
			receipt.MIMEType = *row.ReceiptMIMEType
		}
		if row.ReceiptSize != nil {
			receipt.Size = *row.ReceiptSize
		}
		payment.Receipt = receipt
	}

	return payment
}

type PaymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) collectPayment(rows pgx.Rows, action string) (*model.SamplePayment, error) {
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[paymentRow])
	if err != nil {
		return nil, sqlerr.WithTable(fmt.Errorf("failed to collect %s payment: %w", action, err), samplePaymentsTable)
	}
	return row.toModel(), nil
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, payment *model.SamplePayment) (*model.SamplePayment, error) {
	stmt := `
		INSERT INTO sample_payments (sample_id, amount, note, status, created_by)
		VALUES (@sample_id, @amount, @note, @status, @created_by)
		RETURNING ` + paymentColumns

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"sample_id":  payment.SampleID,
		"amount":     payment.Amount,
		"note":       payment.Note,
		"status":     payment.Status,
		"created_by": payment.CreatedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create payment query: %w", err)
	}

	return r.collectPayment(rows, "created")
}

func (r *PaymentRepository) GetPaymentByID(ctx context.Context, id uuid.UUID) (*model.SamplePayment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+paymentColumns+` FROM sample_payments WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get payment query: %w", err)
	}

	return r.collectPayment(rows, "requested")
}

// AttachReceipt stores file as the receipt of payment id and moves the
// payment to the receipt_uploaded status.
func (r *PaymentRepository) AttachReceipt(ctx context.Context, id uuid.UUID, file *model.UploadedFile) (*model.SamplePayment, error) {
	stmt := `
		UPDATE sample_payments
		SET receipt_file_name = @file_name,
			receipt_mime_type = @mime_type,
			receipt_size = @size,
			receipt_data = @data,
			receipt_uploaded_at = CURRENT_TIMESTAMP,
			status = @status,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = @id
		RETURNING ` + paymentColumns

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{
		"id":        id,
		"file_name": file.OriginalName,
		"mime_type": file.MIMEType,
		"size":      file.Size,
		"data":      file.Buffer,
		"status":    model.PaymentStatusReceived,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute attach receipt query: %w", err)
	}

	return r.collectPayment(rows, "updated")
}

// GetReceipt returns the stored receipt content of payment id.
func (r *PaymentRepository) GetReceipt(ctx context.Context, id uuid.UUID) (*model.ReceiptFile, error) {
	stmt := `
		SELECT receipt_file_name, receipt_mime_type, receipt_data
		FROM sample_payments
		WHERE id = @id AND receipt_data IS NOT NULL
	`

	rows, err := r.db.Query(ctx, stmt, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get receipt query: %w", err)
	}

	receipt, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.ReceiptFile])
	if err != nil {
		return nil, sqlerr.WithTable(fmt.Errorf("failed to collect receipt: %w", err), samplePaymentsTable)
	}

	return receipt, nil
}
