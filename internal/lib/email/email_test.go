package email

import (
	"errors"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (f *fakeSender) Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &resend.SendEmailResponse{Id: "email_1"}, nil
}

func newTestClient(s sender) *Client {
	logger := zerolog.Nop()
	return &Client{sender: s, from: "DNA Testing <ops@example.com>", logger: &logger}
}

func TestRenderPreviewData(t *testing.T) {
	for name, data := range PreviewData {
		html, err := Render(name, data)
		require.NoError(t, err, name)

		for _, value := range data {
			assert.Contains(t, html, value)
		}
	}
}

func TestRenderEscapesValues(t *testing.T) {
	data := map[string]string{"PaymentID": "p-1", "Note": "<script>alert(1)</script>"}

	html, err := Render(TemplatePaymentNotification, data)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("missing", nil)
	assert.Error(t, err)
}

func TestSendPaymentNotification(t *testing.T) {
	fake := &fakeSender{}
	client := newTestClient(fake)

	err := client.SendPaymentNotification("ops@example.com", PaymentNotification{
		PaymentID: "pay-1",
		Amount:    1000.5,
		CreatedBy: "user_1",
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, fake.sent, 1)
	sent := fake.sent[0]
	assert.Equal(t, []string{"ops@example.com"}, sent.To)
	assert.Equal(t, "DNA Testing <ops@example.com>", sent.From)
	assert.Equal(t, "New sample payment pay-1", sent.Subject)
	assert.Contains(t, sent.Html, "1000.50")
	assert.Contains(t, sent.Html, "not provided")
}

func TestSendEmailProviderFailure(t *testing.T) {
	client := newTestClient(&fakeSender{err: errors.New("rate limited")})

	err := client.SendEmail("ops@example.com", "subject", TemplatePaymentNotification, PreviewData[TemplatePaymentNotification])
	assert.ErrorContains(t, err, "rate limited")
}
