package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"roofline_backend/internal/events"
	leaddomain "roofline_backend/internal/leads/domain"
	"roofline_backend/internal/notification/repository"
	"roofline_backend/platform/apperr"
	"roofline_backend/platform/logger"
)

type claimKey struct {
	project uuid.UUID
	name    string
	day     time.Time
}

type fakeStore struct {
	projects      map[uuid.UUID]repository.Project
	milestones    map[uuid.UUID]repository.Milestone
	messages      []repository.Message
	claims        map[claimKey]bool
	failNextWrite error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects:   make(map[uuid.UUID]repository.Project),
		milestones: make(map[uuid.UUID]repository.Milestone),
		claims:     make(map[claimKey]bool),
	}
}

func (s *fakeStore) GetProject(_ context.Context, id uuid.UUID) (repository.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return repository.Project{}, apperr.NotFound("project not found")
	}
	return p, nil
}

func (s *fakeStore) GetMilestone(_ context.Context, id uuid.UUID) (repository.Milestone, error) {
	m, ok := s.milestones[id]
	if !ok {
		return repository.Milestone{}, apperr.NotFound("milestone not found")
	}
	return m, nil
}

func (s *fakeStore) ListCompletedMilestones(context.Context) ([]repository.Milestone, error) {
	var out []repository.Milestone
	for _, m := range s.milestones {
		if m.CompletionDate != nil {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) ListRecentMessages(_ context.Context, projectID uuid.UUID, since time.Time) ([]repository.Message, error) {
	var out []repository.Message
	for _, m := range s.messages {
		if m.ProjectID == projectID && m.CreatedDate.After(since) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateMessage(_ context.Context, params repository.CreateMessageParams) (repository.Message, error) {
	if s.failNextWrite != nil {
		err := s.failNextWrite
		s.failNextWrite = nil
		return repository.Message{}, err
	}
	m := repository.Message{
		ID:           uuid.New(),
		ProjectID:    params.ProjectID,
		SenderName:   params.SenderName,
		SenderEmail:  params.SenderEmail,
		Content:      params.Content,
		IsFromClient: params.IsFromClient,
		CreatedDate:  time.Now(),
	}
	s.messages = append(s.messages, m)
	return m, nil
}

func (s *fakeStore) ClaimNotification(_ context.Context, projectID uuid.UUID, milestoneName string, day time.Time) (bool, error) {
	key := claimKey{project: projectID, name: milestoneName, day: day.UTC().Truncate(24 * time.Hour)}
	if s.claims[key] {
		return false, nil
	}
	s.claims[key] = true
	return true, nil
}

func (s *fakeStore) ReleaseNotification(_ context.Context, projectID uuid.UUID, milestoneName string, day time.Time) error {
	key := claimKey{project: projectID, name: milestoneName, day: day.UTC().Truncate(24 * time.Hour)}
	delete(s.claims, key)
	return nil
}

type fakeEmail struct {
	milestoneTo []string
	healthTo    []string
}

func (f *fakeEmail) SendMilestoneEmail(_ context.Context, to, _, _, _ string) error {
	f.milestoneTo = append(f.milestoneTo, to)
	return nil
}

func (f *fakeEmail) SendProjectHealthEmail(_ context.Context, to, _, _, _ string) error {
	f.healthTo = append(f.healthTo, to)
	return nil
}

type fakeSMS struct {
	sent []string // destination numbers
	body string
}

func (f *fakeSMS) SendMessage(_ context.Context, phoneNumber, message string) error {
	f.sent = append(f.sent, phoneNumber)
	f.body = message
	return nil
}

func setup() (*fakeStore, *fakeEmail, *fakeSMS, *Service) {
	store := newFakeStore()
	email := &fakeEmail{}
	sms := &fakeSMS{}
	svc := New(store, email, sms, "+15550001111", "Roofline", "team@roofline.example", logger.New("test"))
	return store, email, sms, svc
}

func seedProject(store *fakeStore, clientEmail string) repository.Project {
	p := repository.Project{
		ID:          uuid.New(),
		ClientName:  "Dana Roberts",
		ClientEmail: clientEmail,
		Status:      "on_track",
	}
	store.projects[p.ID] = p
	return p
}

func seedMilestone(store *fakeStore, projectID uuid.UUID, name string, completed *time.Time) repository.Milestone {
	m := repository.Milestone{
		ID:             uuid.New(),
		ProjectID:      projectID,
		Name:           name,
		Notes:          "crew finished ahead of schedule",
		CompletionDate: completed,
	}
	store.milestones[m.ID] = m
	return m
}

func TestMilestoneCompletedSendsOnceAndLogsMessage(t *testing.T) {
	store, email, _, svc := setup()
	project := seedProject(store, "dana@example.com")
	done := time.Now()
	milestone := seedMilestone(store, project.ID, "Shingle Installation", &done)

	msg, got, err := svc.MilestoneCompleted(context.Background(), milestone.ID, project.ID)
	if err != nil {
		t.Fatalf("MilestoneCompleted returned error: %v", err)
	}
	if got.Name != "Shingle Installation" {
		t.Fatalf("milestone name = %q", got.Name)
	}
	if msg != "milestone notification sent" {
		t.Fatalf("message = %q", msg)
	}
	if len(email.milestoneTo) != 1 || email.milestoneTo[0] != "dana@example.com" {
		t.Fatalf("emails sent = %v", email.milestoneTo)
	}
	if len(store.messages) != 1 || !strings.Contains(store.messages[0].Content, "Shingle Installation") {
		t.Fatalf("conversation log = %+v", store.messages)
	}
	if store.messages[0].IsFromClient {
		t.Fatal("system message marked as from client")
	}
	if store.messages[0].SenderName != "Roofline" || store.messages[0].SenderEmail != "team@roofline.example" {
		t.Fatalf("system message sender = %q <%s>", store.messages[0].SenderName, store.messages[0].SenderEmail)
	}
}

func TestMilestoneCompletedReleasesClaimWhenLogFails(t *testing.T) {
	store, email, _, svc := setup()
	project := seedProject(store, "dana@example.com")
	done := time.Now()
	milestone := seedMilestone(store, project.ID, "Shingle Installation", &done)

	store.failNextWrite = errors.New("connection reset by peer")
	if _, _, err := svc.MilestoneCompleted(context.Background(), milestone.ID, project.ID); err == nil {
		t.Fatal("expected error from failed message write")
	}
	if len(email.milestoneTo) != 0 {
		t.Fatalf("emails sent = %v, want none", email.milestoneTo)
	}

	// The failed attempt must not burn the day's claim; a retry sends.
	msg, _, err := svc.MilestoneCompleted(context.Background(), milestone.ID, project.ID)
	if err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
	if msg != "milestone notification sent" {
		t.Fatalf("retry message = %q", msg)
	}
	if len(email.milestoneTo) != 1 {
		t.Fatalf("emails sent after retry = %d, want 1", len(email.milestoneTo))
	}
}

func TestMilestoneCompletedSecondCallIsSuppressed(t *testing.T) {
	store, email, _, svc := setup()
	project := seedProject(store, "dana@example.com")
	done := time.Now()
	milestone := seedMilestone(store, project.ID, "Shingle Installation", &done)

	if _, _, err := svc.MilestoneCompleted(context.Background(), milestone.ID, project.ID); err != nil {
		t.Fatalf("first call: %v", err)
	}
	msg, _, err := svc.MilestoneCompleted(context.Background(), milestone.ID, project.ID)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if msg != "notification already sent recently" {
		t.Fatalf("second call message = %q", msg)
	}
	if len(email.milestoneTo) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(email.milestoneTo))
	}
	if len(store.messages) != 1 {
		t.Fatalf("messages logged = %d, want 1", len(store.messages))
	}
}

func TestMilestoneCompletedUnknownIDs(t *testing.T) {
	store, _, _, svc := setup()
	project := seedProject(store, "dana@example.com")
	done := time.Now()
	milestone := seedMilestone(store, project.ID, "Shingle Installation", &done)

	if _, _, err := svc.MilestoneCompleted(context.Background(), uuid.New(), project.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("unknown milestone err = %v", err)
	}
	// Milestone belonging to a different project is not found either.
	if _, _, err := svc.MilestoneCompleted(context.Background(), milestone.ID, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("mismatched project err = %v", err)
	}
}

func TestMilestoneCompletedWithoutClientEmail(t *testing.T) {
	store, email, _, svc := setup()
	project := seedProject(store, "")
	done := time.Now()
	milestone := seedMilestone(store, project.ID, "Shingle Installation", &done)

	if _, _, err := svc.MilestoneCompleted(context.Background(), milestone.ID, project.ID); err != nil {
		t.Fatalf("MilestoneCompleted returned error: %v", err)
	}
	if len(email.milestoneTo) != 0 {
		t.Fatalf("emails sent = %v, want none", email.milestoneTo)
	}
	// The message still lands in the conversation log.
	if len(store.messages) != 1 {
		t.Fatalf("messages logged = %d, want 1", len(store.messages))
	}
}

func TestCheckSuppressesRecentlyNotifiedMilestones(t *testing.T) {
	store, _, _, svc := setup()
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	project := seedProject(store, "dana@example.com")
	done := now.Add(-2 * time.Hour)
	seedMilestone(store, project.ID, "Shingle Installation", &done)
	seedMilestone(store, project.ID, "Gutter Replacement", &done)
	seedMilestone(store, project.ID, "Final Inspection", nil)

	// Shingle Installation was announced an hour ago.
	store.messages = append(store.messages, repository.Message{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		Content:     "Milestone completed: Shingle Installation",
		CreatedDate: now.Add(-1 * time.Hour),
	})

	result, err := svc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if result.PendingNotifications != 1 {
		t.Fatalf("pending = %d, want 1", result.PendingNotifications)
	}
	if result.Notifications[0].MilestoneName != "Gutter Replacement" {
		t.Fatalf("pending milestone = %q", result.Notifications[0].MilestoneName)
	}
}

func TestProjectHealthChangedNotifiesClient(t *testing.T) {
	store, email, _, svc := setup()
	project := seedProject(store, "dana@example.com")

	msg, err := svc.ProjectHealthChanged(context.Background(), project.ID, "on_track", "at_risk", "weather delays")
	if err != nil {
		t.Fatalf("ProjectHealthChanged returned error: %v", err)
	}
	if msg != "project health notification sent" {
		t.Fatalf("message = %q", msg)
	}
	if len(email.healthTo) != 1 {
		t.Fatalf("emails sent = %v", email.healthTo)
	}
	if len(store.messages) != 1 || !strings.Contains(store.messages[0].Content, "at_risk") {
		t.Fatalf("conversation log = %+v", store.messages)
	}
}

func TestProjectHealthChangedUnknownProject(t *testing.T) {
	_, _, _, svc := setup()

	_, err := svc.ProjectHealthChanged(context.Background(), uuid.New(), "on_track", "at_risk", "")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestHandleLeadCreatedAlertsOnHotTier(t *testing.T) {
	_, _, sms, svc := setup()

	hot := events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		Name:      "Sarah Mitchell",
		Phone:     "+15559998888",
		LeadScore: 92,
		LeadTier:  leaddomain.TierHot,
	}
	if err := svc.HandleLeadCreated(context.Background(), hot); err != nil {
		t.Fatalf("HandleLeadCreated returned error: %v", err)
	}
	if len(sms.sent) != 1 || sms.sent[0] != "+15550001111" {
		t.Fatalf("sms sent = %v", sms.sent)
	}
	if !strings.Contains(sms.body, "Sarah Mitchell") || !strings.Contains(sms.body, "92") {
		t.Fatalf("sms body = %q", sms.body)
	}

	warm := hot
	warm.LeadTier = leaddomain.TierWarm
	if err := svc.HandleLeadCreated(context.Background(), warm); err != nil {
		t.Fatalf("HandleLeadCreated returned error: %v", err)
	}
	if len(sms.sent) != 1 {
		t.Fatalf("warm lead triggered an alert: %v", sms.sent)
	}
}
