package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
// It renders the same HTML templates as BrevoSender but delivers via the company's own SMTP server.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendFollowUpEmail delivers a rendered follow-up. Subject and body come
// from the pure followup templates.
func (s *SMTPSender) SendFollowUpEmail(ctx context.Context, toEmail, subject, body string) error {
	content, err := renderEmailTemplate("followup.html", followUpEmailData{
		baseEmailData: baseEmailData{Title: subject},
		Body:          body,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

// SendMilestoneEmail notifies a client that a project milestone completed.
func (s *SMTPSender) SendMilestoneEmail(ctx context.Context, toEmail, clientName, milestoneName, notes string) error {
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
	return s.send(ctx, toEmail, subject, content)
}

// SendProjectHealthEmail notifies a client about a project status change.
func (s *SMTPSender) SendProjectHealthEmail(ctx context.Context, toEmail, clientName, newStatus, reason string) error {
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
	return s.send(ctx, toEmail, subject, content)
}

var _ Sender = (*SMTPSender)(nil)
