// Package email sends transactional emails through Resend.
//
// Bodies are rendered from HTML templates embedded in the binary.
package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/deppfellow/dna-testing-api/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// sender is the part of the Resend API the client uses.
type sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client renders templates and sends them through Resend.
type Client struct {
	sender sender
	from   string
	logger *zerolog.Logger
}

// NewClient creates a Client using the Resend API key from config.
func NewClient(cfg *config.Config, logger *zerolog.Logger) *Client {
	return &Client{
		sender: resend.NewClient(cfg.Integration.ResendAPIKey).Emails,
		from:   cfg.Integration.EmailFrom,
		logger: logger,
	}
}

// Render executes the named template with data.
func Render(templateName Template, data map[string]string) (string, error) {
	tmpl, err := template.ParseFS(templateFS, fmt.Sprintf("templates/%s.html", templateName))
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse email template %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", templateName)
	}

	return body.String(), nil
}

// SendEmail renders templateName with data and sends it to a single recipient.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	html, err := Render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := c.sender.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.logger.Debug().
		Str("email_id", sent.Id).
		Str("template", string(templateName)).
		Msg("email sent")

	return nil
}
