package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"roofline_backend/platform/apperr"
)

// Project is a client project receiving notifications.
type Project struct {
	ID          uuid.UUID
	ClientName  string
	ClientEmail string
	Status      string
	CreatedAt   time.Time
}

// Message is one entry in a project's conversation log. System-authored
// messages double as the notification audit trail.
type Message struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	SenderName   string
	SenderEmail  string
	Content      string
	IsFromClient bool
	CreatedDate  time.Time
}

// Milestone is a project milestone; CompletionDate is nil until done.
type Milestone struct {
	ID             uuid.UUID
	ProjectID      uuid.UUID
	Name           string
	Status         string
	Notes          string
	DueDate        *time.Time
	CompletionDate *time.Time
	Order          int
}

// CreateMessageParams carries the fields for a new conversation message.
type CreateMessageParams struct {
	ProjectID    uuid.UUID
	SenderName   string
	SenderEmail  string
	Content      string
	IsFromClient bool
}

const (
	projectNotFoundMessage   = "project not found"
	milestoneNotFoundMessage = "milestone not found"
)

// Repo provides data access for projects, messages, and milestones.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetProject retrieves a project by ID.
func (r *Repo) GetProject(ctx context.Context, id uuid.UUID) (Project, error) {
	var p Project
	err := r.pool.QueryRow(ctx,
		`SELECT id, client_name, client_email, status, created_at
		 FROM projects WHERE id = $1`, id,
	).Scan(&p.ID, &p.ClientName, &p.ClientEmail, &p.Status, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, apperr.NotFound(projectNotFoundMessage)
		}
		return Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// GetMilestone retrieves a milestone by ID.
func (r *Repo) GetMilestone(ctx context.Context, id uuid.UUID) (Milestone, error) {
	var m Milestone
	err := r.pool.QueryRow(ctx,
		`SELECT id, project_id, name, status, notes, due_date, completion_date, milestone_order
		 FROM milestones WHERE id = $1`, id,
	).Scan(&m.ID, &m.ProjectID, &m.Name, &m.Status, &m.Notes, &m.DueDate, &m.CompletionDate, &m.Order)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Milestone{}, apperr.NotFound(milestoneNotFoundMessage)
		}
		return Milestone{}, fmt.Errorf("get milestone: %w", err)
	}
	return m, nil
}

// ListCompletedMilestones retrieves all milestones that have a completion
// date, newest completion first.
func (r *Repo) ListCompletedMilestones(ctx context.Context) ([]Milestone, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, project_id, name, status, notes, due_date, completion_date, milestone_order
		 FROM milestones
		 WHERE completion_date IS NOT NULL
		 ORDER BY completion_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list completed milestones: %w", err)
	}
	defer rows.Close()

	var out []Milestone
	for rows.Next() {
		var m Milestone
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Name, &m.Status, &m.Notes, &m.DueDate, &m.CompletionDate, &m.Order); err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListRecentMessages retrieves a project's messages created after the
// given cutoff, newest first.
func (r *Repo) ListRecentMessages(ctx context.Context, projectID uuid.UUID, since time.Time) ([]Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, project_id, sender_name, sender_email, message_text, is_from_client, created_date
		 FROM messages
		 WHERE project_id = $1 AND created_date > $2
		 ORDER BY created_date DESC`, projectID, since)
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.SenderName, &m.SenderEmail, &m.Content, &m.IsFromClient, &m.CreatedDate); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreateMessage appends a message to a project's conversation log.
func (r *Repo) CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error) {
	var m Message
	err := r.pool.QueryRow(ctx,
		`INSERT INTO messages (id, project_id, sender_name, sender_email, message_text, is_from_client, created_date)
		 VALUES ($1, $2, $3, $4, $5, $6, now())
		 RETURNING id, project_id, sender_name, sender_email, message_text, is_from_client, created_date`,
		uuid.New(), params.ProjectID, params.SenderName, params.SenderEmail, params.Content, params.IsFromClient,
	).Scan(&m.ID, &m.ProjectID, &m.SenderName, &m.SenderEmail, &m.Content, &m.IsFromClient, &m.CreatedDate)
	if err != nil {
		return Message{}, fmt.Errorf("create message: %w", err)
	}
	return m, nil
}

// uniqueViolation is the postgres SQLSTATE for a unique constraint breach.
const uniqueViolation = "23505"

// ClaimNotification records that a milestone notification went out on the
// given day. It returns false when another process already claimed the
// same (project, milestone, day), making concurrent double-sends safe.
func (r *Repo) ClaimNotification(ctx context.Context, projectID uuid.UUID, milestoneName string, day time.Time) (bool, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO milestone_notifications (project_id, milestone_name, day_bucket, notified_at)
		 VALUES ($1, $2, $3, now())`,
		projectID, milestoneName, day.UTC().Truncate(24*time.Hour),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return false, nil
		}
		return false, fmt.Errorf("claim notification: %w", err)
	}
	return true, nil
}

// ReleaseNotification undoes a claim when the notification could not be
// recorded, so a later retry is not suppressed for the rest of the day.
func (r *Repo) ReleaseNotification(ctx context.Context, projectID uuid.UUID, milestoneName string, day time.Time) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM milestone_notifications
		 WHERE project_id = $1 AND milestone_name = $2 AND day_bucket = $3`,
		projectID, milestoneName, day.UTC().Truncate(24*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("release notification: %w", err)
	}
	return nil
}
