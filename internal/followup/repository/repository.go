package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo persists the sweep bookkeeping row. A single row keyed by name
// records when the daily follow-up sweep last ran, so concurrent
// scheduler instances agree on who runs it.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const sweepName = "followup_daily"

// LastSweepAt returns when the sweep last ran. A zero time means it has
// never run.
func (r *Repo) LastSweepAt(ctx context.Context) (time.Time, error) {
	var last time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT last_sweep_at FROM followup_sweep_state WHERE name = $1`,
		sweepName,
	).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get last sweep: %w", err)
	}
	return last, nil
}

// ClaimSweep advances the sweep timestamp to now if and only if the
// stored timestamp is older than notAfter. It returns true when this
// caller won the claim. The compare-and-set keeps multiple scheduler
// processes from running the same daily sweep.
func (r *Repo) ClaimSweep(ctx context.Context, now, notAfter time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO followup_sweep_state (name, last_sweep_at)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
		SET last_sweep_at = EXCLUDED.last_sweep_at
		WHERE followup_sweep_state.last_sweep_at < $3`,
		sweepName, now, notAfter,
	)
	if err != nil {
		return false, fmt.Errorf("claim sweep: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
