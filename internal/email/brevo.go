package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// BrevoSender implements the Sender interface using the Brevo
// transactional email API.
type BrevoSender struct {
	apiKey    string
	fromName  string
	fromEmail string
	client    *http.Client
}

type brevoEmailRequest struct {
	Sender struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"sender"`
	To []struct {
		Email string `json:"email"`
	} `json:"to"`
	Subject     string `json:"subject"`
	HTMLContent string `json:"htmlContent"`
}

func (b *BrevoSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	payload := brevoEmailRequest{
		Subject:     subject,
		HTMLContent: htmlContent,
	}
	payload.Sender.Name = b.fromName
	payload.Sender.Email = b.fromEmail
	payload.To = []struct {
		Email string `json:"email"`
	}{{Email: toEmail}}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.brevo.com/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", b.apiKey)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return nil
}

// SendFollowUpEmail delivers a rendered follow-up. Subject and body come
// from the pure followup templates.
func (b *BrevoSender) SendFollowUpEmail(ctx context.Context, toEmail, subject, body string) error {
	content, err := renderEmailTemplate("followup.html", followUpEmailData{
		baseEmailData: baseEmailData{Title: subject},
		Body:          body,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, subject, content)
}

// SendMilestoneEmail notifies a client that a project milestone completed.
func (b *BrevoSender) SendMilestoneEmail(ctx context.Context, toEmail, clientName, milestoneName, notes string) error {
	subject := fmt.Sprintf(subjectMilestoneFmt, milestoneName)
	content, err := renderEmailTemplate("milestone.html", milestoneEmailData{
		baseEmailData: baseEmailData{Title: subject, Heading: "Milestone completed"},
		ClientName:    clientName,
		MilestoneName: milestoneName,
		Notes:         notes,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, subject, content)
}

// SendProjectHealthEmail notifies a client about a project status change.
func (b *BrevoSender) SendProjectHealthEmail(ctx context.Context, toEmail, clientName, newStatus, reason string) error {
	subject := fmt.Sprintf(subjectProjectHealthFmt, newStatus)
	content, err := renderEmailTemplate("project_health.html", projectHealthEmailData{
		baseEmailData: baseEmailData{Title: subject, Heading: "Project status update"},
		ClientName:    clientName,
		NewStatus:     newStatus,
		Reason:        reason,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, subject, content)
}

var _ Sender = (*BrevoSender)(nil)
