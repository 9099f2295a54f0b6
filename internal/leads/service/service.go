// Package service provides business logic for the leads bounded context.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"roofline_backend/internal/events"
	"roofline_backend/internal/leads/domain"
	"roofline_backend/internal/leads/repository"
	"roofline_backend/internal/leads/scoring"
	"roofline_backend/internal/leads/transport"
	"roofline_backend/platform/apperr"
	"roofline_backend/platform/logger"
	"roofline_backend/platform/phone"
)

// Service handles lead intake, scoring, and stage management.
type Service struct {
	repo        repository.Repository
	eventBus    events.Bus
	log         *logger.Logger
	phoneRegion string
}

// New creates a new leads service.
func New(repo repository.Repository, eventBus events.Bus, log *logger.Logger, phoneRegion string) *Service {
	return &Service{
		repo:        repo,
		eventBus:    eventBus,
		log:         log,
		phoneRegion: phoneRegion,
	}
}

// Create persists a new lead from intake answers. The questionnaire is
// scored once, here; the stored tier is always derived from the stored
// score. Leads enter the funnel at new_lead.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	result := scoring.Score(req.Answers)

	lead, err := s.repo.Create(ctx, repository.CreateParams{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           phone.NormalizeE164(req.Phone, s.phoneRegion),
		Address:         req.Address,
		Stage:           domain.StageNewLead,
		LeadScore:       result.Score,
		LeadTier:        result.Tier,
		QuoteValueCents: req.QuoteValueCents,
		Source:          req.Source,
		Notes:           req.Notes,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.Info("lead created",
		"id", lead.ID, "score", lead.LeadScore, "tier", lead.LeadTier, "source", lead.Source)

	s.eventBus.Publish(ctx, events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		LeadScore: lead.LeadScore,
		LeadTier:  lead.LeadTier,
		Source:    lead.Source,
	})

	return ToLeadResponse(lead), nil
}

// GetByID retrieves a single lead.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return ToLeadResponse(lead), nil
}

// List retrieves all leads.
func (s *Service) List(ctx context.Context) (transport.LeadListResponse, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, ToLeadResponse(lead))
	}
	return transport.LeadListResponse{Items: items, Total: len(items)}, nil
}

// UpdateStage moves a lead to a different funnel stage. Transitions are
// checked against the intended funnel order unless Force is set; the
// stored data remains permissive because the CRM UI mutates stage
// directly, so readers never rely on this check.
func (s *Service) UpdateStage(ctx context.Context, id uuid.UUID, req transport.UpdateStageRequest) (transport.LeadResponse, error) {
	if !domain.IsKnownStage(req.Stage) {
		return transport.LeadResponse{}, apperr.Validation("unknown stage")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if current.Stage == req.Stage {
		return ToLeadResponse(current), nil
	}

	if !req.Force && !domain.CanTransition(current.Stage, req.Stage) {
		return transport.LeadResponse{}, apperr.Validation(
			"stage transition " + current.Stage + " -> " + req.Stage + " does not follow the funnel order")
	}

	lead, err := s.repo.UpdateStage(ctx, id, req.Stage)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.eventBus.Publish(ctx, events.StageChanged{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        lead.ID,
		PreviousStage: current.Stage,
		NewStage:      lead.Stage,
	})

	return ToLeadResponse(lead), nil
}

// Rescore re-runs the rubric over fresh answers and rewrites score and
// tier together. This is the only path that changes a score after intake.
func (s *Service) Rescore(ctx context.Context, id uuid.UUID, req transport.RescoreRequest) (transport.LeadResponse, error) {
	result := scoring.Score(req.Answers)

	lead, err := s.repo.SetScore(ctx, id, result.Score, result.Tier)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.Info("lead rescored", "id", lead.ID, "score", lead.LeadScore, "tier", lead.LeadTier)
	return ToLeadResponse(lead), nil
}

// ScorePreview runs the pure scoring rubric without persisting anything.
func (s *Service) ScorePreview(answers scoring.Answers) scoring.Result {
	return scoring.Score(answers)
}

// ToLeadResponse maps a stored lead to its API representation.
func ToLeadResponse(lead repository.Lead) transport.LeadResponse {
	displayScore := lead.LeadScore
	if displayScore > 100 {
		displayScore = 100
	}

	resp := transport.LeadResponse{
		ID:              lead.ID,
		Name:            lead.Name,
		Email:           lead.Email,
		Phone:           lead.Phone,
		Address:         lead.Address,
		Stage:           lead.Stage,
		LeadScore:       lead.LeadScore,
		DisplayScore:    displayScore,
		LeadTier:        lead.LeadTier,
		QuoteValueCents: lead.QuoteValueCents,
		Source:          lead.Source,
		Notes:           lead.Notes,
		CreatedDate:     lead.CreatedDate.Format(time.RFC3339),
	}
	if lead.LastContactDate != nil {
		formatted := lead.LastContactDate.Format(time.RFC3339)
		resp.LastContactDate = &formatted
	}
	return resp
}
