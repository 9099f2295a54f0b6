package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roofline_backend/internal/leads/domain"
	"roofline_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

const leadColumns = `id, name, email, phone, address, stage, lead_score, lead_tier,
	quote_value_cents, source, notes, created_date, last_contact_date, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create persists a new lead and returns the stored row.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Lead, error) {
	query := `
		INSERT INTO leads (id, name, email, phone, address, stage, lead_score, lead_tier,
			quote_value_cents, source, notes, created_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		RETURNING ` + leadColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), params.Name, params.Email, params.Phone, params.Address,
		params.Stage, params.LeadScore, params.LeadTier, params.QuoteValueCents,
		params.Source, params.Notes,
	)

	lead, err := scanLead(row)
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

// GetByID retrieves a lead by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}
	return lead, nil
}

// List retrieves all leads, newest first.
func (r *Repo) List(ctx context.Context) ([]Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_date DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// ListOpen retrieves leads still in the pipeline (not closed either way).
func (r *Repo) ListOpen(ctx context.Context) ([]Lead, error) {
	query := `SELECT ` + leadColumns + `
		FROM leads
		WHERE stage NOT IN ($1, $2)
		ORDER BY created_date ASC`

	rows, err := r.pool.Query(ctx, query, domain.StageClosedWon, domain.StageClosedLost)
	if err != nil {
		return nil, fmt.Errorf("list open leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// UpdateStage moves a lead to the given stage.
func (r *Repo) UpdateStage(ctx context.Context, id uuid.UUID, stage string) (Lead, error) {
	query := `
		UPDATE leads SET stage = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, stage))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("update lead stage: %w", err)
	}
	return lead, nil
}

// SetScore rewrites a lead's score and tier together.
func (r *Repo) SetScore(ctx context.Context, id uuid.UUID, score int, tier string) (Lead, error) {
	query := `
		UPDATE leads SET lead_score = $2, lead_tier = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id, score, tier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("set lead score: %w", err)
	}
	return lead, nil
}

// AdvanceLastContact moves last_contact_date forward to contactedAt. The
// column is monotonically non-decreasing: an older timestamp is a no-op,
// so concurrent sweeps cannot move the contact date backwards.
func (r *Repo) AdvanceLastContact(ctx context.Context, id uuid.UUID, contactedAt time.Time) error {
	query := `
		UPDATE leads SET last_contact_date = $2, updated_at = now()
		WHERE id = $1 AND (last_contact_date IS NULL OR last_contact_date < $2)`

	if _, err := r.pool.Exec(ctx, query, id, contactedAt); err != nil {
		return fmt.Errorf("advance last contact: %w", err)
	}
	return nil
}

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Address,
		&lead.Stage, &lead.LeadScore, &lead.LeadTier, &lead.QuoteValueCents,
		&lead.Source, &lead.Notes, &lead.CreatedDate, &lead.LastContactDate,
		&lead.UpdatedAt,
	)
	return lead, err
}

func scanLeads(rows pgx.Rows) ([]Lead, error) {
	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}
