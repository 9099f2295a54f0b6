package service

import (
	"context"
	"time"

	"roofline_backend/internal/insights/domain"
	"roofline_backend/internal/leads/repository"
)

// Service produces sales insights from the current lead pipeline.
type Service struct {
	leads repository.LeadReader

	now func() time.Time
}

func New(leads repository.LeadReader) *Service {
	return &Service{leads: leads, now: time.Now}
}

// Sales aggregates pipeline signals, funnel metrics, and recommendations
// over all leads.
func (s *Service) Sales(ctx context.Context) (domain.Insights, error) {
	leads, err := s.leads.List(ctx)
	if err != nil {
		return domain.Insights{}, err
	}
	return domain.Aggregate(leads, s.now()), nil
}
