package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"roofline_backend/internal/events"
	leaddomain "roofline_backend/internal/leads/domain"
	"roofline_backend/internal/notification/domain"
	"roofline_backend/internal/notification/repository"
	"roofline_backend/platform/apperr"
	"roofline_backend/platform/logger"
)

// Store is the data access surface the notification service needs.
type Store interface {
	GetProject(ctx context.Context, id uuid.UUID) (repository.Project, error)
	GetMilestone(ctx context.Context, id uuid.UUID) (repository.Milestone, error)
	ListCompletedMilestones(ctx context.Context) ([]repository.Milestone, error)
	ListRecentMessages(ctx context.Context, projectID uuid.UUID, since time.Time) ([]repository.Message, error)
	CreateMessage(ctx context.Context, params repository.CreateMessageParams) (repository.Message, error)
	ClaimNotification(ctx context.Context, projectID uuid.UUID, milestoneName string, day time.Time) (bool, error)
	ReleaseNotification(ctx context.Context, projectID uuid.UUID, milestoneName string, day time.Time) error
}

// EmailSender is the delivery dependency for client notifications.
type EmailSender interface {
	SendMilestoneEmail(ctx context.Context, toEmail, clientName, milestoneName, notes string) error
	SendProjectHealthEmail(ctx context.Context, toEmail, clientName, newStatus, reason string) error
}

// SMSSender alerts the sales team; a nil client is a no-op.
type SMSSender interface {
	SendMessage(ctx context.Context, phoneNumber string, message string) error
}

// PendingNotification is a completed milestone whose client notification
// has not been sent in the last day.
type PendingNotification struct {
	MilestoneID   uuid.UUID `json:"milestoneId"`
	ProjectID     uuid.UUID `json:"projectId"`
	MilestoneName string    `json:"milestoneName"`
	ClientName    string    `json:"clientName"`
	CompletedAt   time.Time `json:"completedAt"`
}

// CheckResult lists the milestones still awaiting a notification.
type CheckResult struct {
	PendingNotifications int                   `json:"pendingNotifications"`
	Notifications        []PendingNotification `json:"notifications"`
}

const (
	msgMilestoneNotFound = "milestone not found"
	msgProjectNotFound   = "project not found"
)

// Service sends milestone and project-health notifications to clients and
// alerts the sales team about hot leads.
type Service struct {
	store          Store
	email          EmailSender
	sms            SMSSender
	alertRecipient string
	fromName       string
	fromEmail      string
	log            *logger.Logger

	now func() time.Time
}

// New builds the service. fromName and fromEmail identify system-authored
// conversation messages, matching the configured email sender.
func New(store Store, email EmailSender, sms SMSSender, alertRecipient, fromName, fromEmail string, log *logger.Logger) *Service {
	return &Service{
		store:          store,
		email:          email,
		sms:            sms,
		alertRecipient: alertRecipient,
		fromName:       fromName,
		fromEmail:      fromEmail,
		log:            log,
		now:            time.Now,
	}
}

// Check lists completed milestones whose notification is not suppressed
// by a recent identical one. Read-only; nothing is sent or recorded.
func (s *Service) Check(ctx context.Context) (CheckResult, error) {
	now := s.now()

	milestones, err := s.store.ListCompletedMilestones(ctx)
	if err != nil {
		return CheckResult{}, err
	}

	result := CheckResult{Notifications: []PendingNotification{}}
	recentByProject := make(map[uuid.UUID][]domain.RecentMessage)

	for _, m := range milestones {
		recent, ok := recentByProject[m.ProjectID]
		if !ok {
			messages, err := s.store.ListRecentMessages(ctx, m.ProjectID, now.Add(-domain.DedupWindow))
			if err != nil {
				return CheckResult{}, err
			}
			recent = make([]domain.RecentMessage, 0, len(messages))
			for _, msg := range messages {
				recent = append(recent, domain.RecentMessage{
					Content:      msg.Content,
					IsFromClient: msg.IsFromClient,
					CreatedDate:  msg.CreatedDate,
				})
			}
			recentByProject[m.ProjectID] = recent
		}

		if domain.ShouldSuppress(m.Name, now, recent) {
			continue
		}

		project, err := s.store.GetProject(ctx, m.ProjectID)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				continue
			}
			return CheckResult{}, err
		}

		result.Notifications = append(result.Notifications, PendingNotification{
			MilestoneID:   m.ID,
			ProjectID:     m.ProjectID,
			MilestoneName: m.Name,
			ClientName:    project.ClientName,
			CompletedAt:   *m.CompletionDate,
		})
	}

	result.PendingNotifications = len(result.Notifications)
	return result, nil
}

// MilestoneCompleted notifies a project's client that a milestone is done.
// The notification is claimed atomically per (project, milestone, day), so
// concurrent calls send at most once.
func (s *Service) MilestoneCompleted(ctx context.Context, milestoneID, projectID uuid.UUID) (string, repository.Milestone, error) {
	now := s.now()

	milestone, err := s.store.GetMilestone(ctx, milestoneID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return "", repository.Milestone{}, apperr.NotFound(msgMilestoneNotFound)
		}
		return "", repository.Milestone{}, err
	}
	if milestone.ProjectID != projectID {
		return "", repository.Milestone{}, apperr.NotFound(msgMilestoneNotFound)
	}

	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return "", repository.Milestone{}, apperr.NotFound(msgProjectNotFound)
		}
		return "", repository.Milestone{}, err
	}

	claimed, err := s.store.ClaimNotification(ctx, projectID, milestone.Name, now)
	if err != nil {
		return "", repository.Milestone{}, err
	}
	if !claimed {
		return "notification already sent recently", milestone, nil
	}

	content := fmt.Sprintf("Milestone completed: %s", milestone.Name)
	if milestone.Notes != "" {
		content += " – " + milestone.Notes
	}
	if _, err := s.store.CreateMessage(ctx, s.systemMessage(projectID, content)); err != nil {
		// Give the claim back so a retry later today is not suppressed.
		if relErr := s.store.ReleaseNotification(ctx, projectID, milestone.Name, now); relErr != nil {
			s.log.DatabaseError("release notification claim", relErr)
		}
		return "", repository.Milestone{}, err
	}

	if project.ClientEmail != "" {
		if err := s.email.SendMilestoneEmail(ctx, project.ClientEmail, project.ClientName, milestone.Name, milestone.Notes); err != nil {
			s.log.DeliveryError("email", project.ClientEmail, err)
		}
	}

	return "milestone notification sent", milestone, nil
}

// ProjectHealthChanged records a project status change in the
// conversation log and emails the client about it.
func (s *Service) ProjectHealthChanged(ctx context.Context, projectID uuid.UUID, previousStatus, newStatus, reason string) (string, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return "", apperr.NotFound(msgProjectNotFound)
		}
		return "", err
	}

	content := fmt.Sprintf("Project status changed from %s to %s", previousStatus, newStatus)
	if reason != "" {
		content += ": " + reason
	}
	if _, err := s.store.CreateMessage(ctx, s.systemMessage(projectID, content)); err != nil {
		return "", err
	}

	if project.ClientEmail != "" {
		if err := s.email.SendProjectHealthEmail(ctx, project.ClientEmail, project.ClientName, newStatus, reason); err != nil {
			s.log.DeliveryError("email", project.ClientEmail, err)
		}
	}

	return "project health notification sent", nil
}

// systemMessage fills in the configured sender identity for messages the
// engine writes on its own behalf.
func (s *Service) systemMessage(projectID uuid.UUID, content string) repository.CreateMessageParams {
	return repository.CreateMessageParams{
		ProjectID:    projectID,
		SenderName:   s.fromName,
		SenderEmail:  s.fromEmail,
		Content:      content,
		IsFromClient: false,
	}
}

// HandleLeadCreated alerts the sales team by SMS when a hot lead arrives.
func (s *Service) HandleLeadCreated(ctx context.Context, event events.Event) error {
	created, ok := event.(events.LeadCreated)
	if !ok {
		return nil
	}
	if created.LeadTier != leaddomain.TierHot || s.alertRecipient == "" {
		return nil
	}

	text := fmt.Sprintf("Hot lead: %s scored %d. Contact within the hour: %s",
		created.Name, created.LeadScore, created.Phone)
	if err := s.sms.SendMessage(ctx, s.alertRecipient, text); err != nil {
		s.log.DeliveryError("sms", s.alertRecipient, err)
		return err
	}

	s.log.Info("hot_lead_alert_sent",
		"lead_id", created.LeadID.String(),
		"score", created.LeadScore,
	)
	return nil
}

// RegisterSubscribers wires the service's event handlers onto the bus.
func (s *Service) RegisterSubscribers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(s.HandleLeadCreated))
}
