package transport

import (
	"github.com/google/uuid"

	"roofline_backend/internal/leads/scoring"
)

// CreateLeadRequest contains intake data for creating a new lead. The
// questionnaire answers are scored exactly once, at creation.
type CreateLeadRequest struct {
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	Email           string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone           string          `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address         string          `json:"address,omitempty" validate:"omitempty,max=300"`
	Source          string          `json:"source,omitempty" validate:"omitempty,max=100"`
	Notes           string          `json:"notes,omitempty" validate:"omitempty,max=5000"`
	QuoteValueCents *int64          `json:"quoteValueCents,omitempty" validate:"omitempty,min=0"`
	Answers         scoring.Answers `json:"answers"`
}

// UpdateStageRequest moves a lead to a different funnel stage. Force skips
// the forward-only transition check, preserving the permissive behavior of
// the CRM UI.
type UpdateStageRequest struct {
	Stage string `json:"stage" validate:"required"`
	Force bool   `json:"force,omitempty"`
}

// RescoreRequest re-runs the scoring rubric over a fresh set of answers.
// Rescoring never happens automatically; it is always an explicit call.
type RescoreRequest struct {
	Answers scoring.Answers `json:"answers"`
}

// LeadResponse represents a lead in API responses.
type LeadResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Address         string    `json:"address,omitempty"`
	Stage           string    `json:"stage"`
	LeadScore       int       `json:"leadScore"`
	DisplayScore    int       `json:"displayScore"`
	LeadTier        string    `json:"leadTier"`
	QuoteValueCents *int64    `json:"quoteValueCents,omitempty"`
	Source          string    `json:"source,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedDate     string    `json:"createdDate"`
	LastContactDate *string   `json:"lastContactDate,omitempty"`
}

// LeadListResponse wraps a list of leads.
type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}
