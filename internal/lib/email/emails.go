package email

import (
	"strconv"
	"time"
)

// PaymentNotification describes a newly recorded sample payment.
type PaymentNotification struct {
	PaymentID string
	SampleID  string
	Amount    float64
	Note      string
	CreatedBy string
	CreatedAt time.Time
}

// SendPaymentNotification tells the operations inbox about a new payment.
func (c *Client) SendPaymentNotification(to string, p PaymentNotification) error {
	sampleID := p.SampleID
	if sampleID == "" {
		sampleID = "not provided"
	}

	data := map[string]string{
		"PaymentID": p.PaymentID,
		"SampleID":  sampleID,
		"Amount":    strconv.FormatFloat(p.Amount, 'f', 2, 64),
		"Note":      p.Note,
		"CreatedBy": p.CreatedBy,
		"CreatedAt": p.CreatedAt.UTC().Format(time.RFC1123),
	}

	return c.SendEmail(
		to,
		"New sample payment "+p.PaymentID,
		TemplatePaymentNotification,
		data,
	)
}
