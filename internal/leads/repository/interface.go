package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lead is a prospective customer record moving through the sales funnel.
// LeadTier is always the deterministic image of LeadScore under the tier
// threshold function; the repository never writes one without the other.
type Lead struct {
	ID              uuid.UUID
	Name            string
	Email           string
	Phone           string
	Address         string
	Stage           string
	LeadScore       int
	LeadTier        string
	QuoteValueCents *int64
	Source          string
	Notes           string
	CreatedDate     time.Time
	LastContactDate *time.Time
	UpdatedAt       time.Time
}

// CreateParams contains the fields needed to persist a new lead.
type CreateParams struct {
	Name            string
	Email           string
	Phone           string
	Address         string
	Stage           string
	LeadScore       int
	LeadTier        string
	QuoteValueCents *int64
	Source          string
	Notes           string
}

// LeadReader provides read access to leads. Consumer-driven interface:
// the followup and insights services depend on this subset only.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context) ([]Lead, error)
	ListOpen(ctx context.Context) ([]Lead, error)
}

// ContactMarker advances a lead's last contact timestamp after a confirmed
// successful send.
type ContactMarker interface {
	AdvanceLastContact(ctx context.Context, id uuid.UUID, contactedAt time.Time) error
}

// Repository is the full data access interface for the leads module.
type Repository interface {
	LeadReader
	ContactMarker
	Create(ctx context.Context, params CreateParams) (Lead, error)
	UpdateStage(ctx context.Context, id uuid.UUID, stage string) (Lead, error)
	SetScore(ctx context.Context, id uuid.UUID, score int, tier string) (Lead, error)
}
