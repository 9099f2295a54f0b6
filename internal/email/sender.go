// Package email provides outbound email delivery for follow-ups and
// project notices. Two providers are supported: direct SMTP and the Brevo
// transactional API. Message content is rendered by the callers (the
// followup templates are pure); this package only delivers.
package email

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"roofline_backend/platform/config"
)

// Sender is the delivery contract consumed by the followup and
// notification modules. Every method returns a plain success/failure
// outcome; callers treat failures as per-item results, never fatal.
type Sender interface {
	SendFollowUpEmail(ctx context.Context, toEmail, subject, body string) error
	SendMilestoneEmail(ctx context.Context, toEmail, clientName, milestoneName, notes string) error
	SendProjectHealthEmail(ctx context.Context, toEmail, clientName, newStatus, reason string) error
}

// NoopSender is used when email is disabled; every send succeeds silently.
type NoopSender struct{}

func (NoopSender) SendFollowUpEmail(context.Context, string, string, string) error { return nil }

func (NoopSender) SendMilestoneEmail(context.Context, string, string, string, string) error {
	return nil
}

func (NoopSender) SendProjectHealthEmail(context.Context, string, string, string, string) error {
	return nil
}

// NewSender selects the provider from configuration.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	switch cfg.GetEmailProvider() {
	case "brevo":
		return &BrevoSender{
			apiKey:    cfg.GetBrevoAPIKey(),
			fromName:  cfg.GetEmailFromName(),
			fromEmail: cfg.GetEmailFromAddress(),
			client:    &http.Client{Timeout: 10 * time.Second},
		}, nil
	case "smtp":
		return NewSMTPSender(
			cfg.GetSMTPHost(), cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
		), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.GetEmailProvider())
	}
}
