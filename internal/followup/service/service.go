package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"roofline_backend/internal/followup/domain"
	"roofline_backend/internal/leads/repository"
	"roofline_backend/platform/apperr"
	"roofline_backend/platform/logger"
)

const (
	msgLeadNotFound = "lead not found"
	msgLeadNoEmail  = "lead has no email address"
)

// EmailSender is the delivery dependency of the follow-up service.
type EmailSender interface {
	SendFollowUpEmail(ctx context.Context, toEmail, subject, body string) error
}

// LeadStore is the slice of the leads repository this service needs.
type LeadStore interface {
	repository.LeadReader
	repository.ContactMarker
}

// Config carries the sweep tuning knobs.
type Config interface {
	GetSendTimeout() time.Duration
	GetSweepParallelism() int
}

// LeadResult records the outcome of one attempted follow-up in a sweep.
type LeadResult struct {
	LeadID       uuid.UUID `json:"leadId"`
	LeadName     string    `json:"leadName"`
	FollowUpType string    `json:"followUpType"`
	Urgency      string    `json:"urgency"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
}

// SweepResult summarizes a full sweep run.
type SweepResult struct {
	FollowUpsSent int          `json:"followUpsSent"`
	Results       []LeadResult `json:"results"`
}

const (
	statusSent   = "sent"
	statusFailed = "failed"
)

// Service runs the automated follow-up sweep and on-demand sends.
type Service struct {
	leads  LeadStore
	sender EmailSender
	cfg    Config
	log    *logger.Logger

	now func() time.Time
}

func New(leads LeadStore, sender EmailSender, cfg Config, log *logger.Logger) *Service {
	return &Service{
		leads:  leads,
		sender: sender,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// Sweep walks all open leads and sends a follow-up to every lead whose
// stage rule threshold has elapsed since last contact. Send failures are
// recorded per lead and never abort the sweep.
func (s *Service) Sweep(ctx context.Context) (SweepResult, error) {
	now := s.now()

	leads, err := s.leads.ListOpen(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	type due struct {
		lead repository.Lead
		rule domain.Rule
	}
	var candidates []due
	for _, lead := range leads {
		rule, ok := domain.RuleForStage(lead.Stage)
		if !ok {
			continue
		}
		if domain.DaysSinceContact(lead, now) < rule.ThresholdDays {
			continue
		}
		if lead.Email == "" {
			s.log.Warn("followup_skipped_no_email",
				"lead_id", lead.ID.String(),
				"lead_name", lead.Name,
			)
			continue
		}
		candidates = append(candidates, due{lead: lead, rule: rule})
	}

	var (
		mu      sync.Mutex
		results = make([]LeadResult, 0, len(candidates))
	)

	g, gctx := errgroup.WithContext(ctx)
	// SetLimit(0) would block every g.Go call; a misconfigured limit must
	// degrade to sequential sends, not hang the sweep.
	limit := s.cfg.GetSweepParallelism()
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for _, c := range candidates {
		c := c
		g.Go(func() error {
			result := s.sendOne(gctx, c.lead, c.rule, now)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; Wait only observes context cancellation.
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].LeadName < results[j].LeadName
	})

	sent := 0
	for _, r := range results {
		if r.Status == statusSent {
			sent++
		}
	}

	s.log.Info("followup_sweep_completed",
		"open_leads", len(leads),
		"due", len(candidates),
		"sent", sent,
	)

	return SweepResult{FollowUpsSent: sent, Results: results}, nil
}

func (s *Service) sendOne(ctx context.Context, lead repository.Lead, rule domain.Rule, now time.Time) LeadResult {
	result := LeadResult{
		LeadID:       lead.ID,
		LeadName:     lead.Name,
		FollowUpType: rule.FollowUpType,
		Urgency:      rule.Urgency,
	}

	msg := domain.Render(rule.FollowUpType, lead, now)

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.GetSendTimeout())
	defer cancel()

	if err := s.sender.SendFollowUpEmail(sendCtx, lead.Email, msg.Subject, msg.Body); err != nil {
		s.log.DeliveryError("email", lead.Email, err)
		result.Status = statusFailed
		result.Error = err.Error()
		return result
	}

	if err := s.leads.AdvanceLastContact(ctx, lead.ID, now); err != nil {
		// The email went out; a bookkeeping failure still counts as sent
		// but is worth surfacing in the logs.
		s.log.DatabaseError("advance last contact", err)
	}

	result.Status = statusSent
	return result
}

// SendNow sends an immediate follow-up to a single lead, bypassing the
// stage threshold. An explicit followUpType overrides the stage rule;
// when both are absent the general template is used.
func (s *Service) SendNow(ctx context.Context, leadID uuid.UUID, followUpType string) (repository.Lead, error) {
	now := s.now()

	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return repository.Lead{}, apperr.NotFound(msgLeadNotFound)
		}
		return repository.Lead{}, err
	}
	if lead.Email == "" {
		return repository.Lead{}, apperr.BadRequest(msgLeadNoEmail)
	}

	switch {
	case followUpType == "":
		followUpType = domain.TypeGeneralFollowUp
		if rule, ok := domain.RuleForStage(lead.Stage); ok {
			followUpType = rule.FollowUpType
		}
	case !domain.IsKnownType(followUpType):
		s.log.Warn("followup_unknown_type",
			"lead_id", lead.ID.String(),
			"followup_type", followUpType,
		)
		followUpType = domain.TypeGeneralFollowUp
	}
	msg := domain.Render(followUpType, lead, now)

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.GetSendTimeout())
	defer cancel()

	if err := s.sender.SendFollowUpEmail(sendCtx, lead.Email, msg.Subject, msg.Body); err != nil {
		s.log.DeliveryError("email", lead.Email, err)
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, "failed to send follow-up email", err)
	}

	if err := s.leads.AdvanceLastContact(ctx, lead.ID, now); err != nil {
		s.log.DatabaseError("advance last contact", err)
	}

	return lead, nil
}
