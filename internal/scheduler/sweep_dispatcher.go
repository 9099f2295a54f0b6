package scheduler

import (
	"context"
	"time"

	"roofline_backend/platform/logger"
)

// SweepState is the persisted bookkeeping behind the daily sweep.
type SweepState interface {
	ClaimSweep(ctx context.Context, now, notAfter time.Time) (bool, error)
}

// SweepDispatcher ticks periodically and enqueues a follow-up sweep once
// per configured interval. The claim against the persisted state decides
// which instance enqueues, so running several dispatchers is safe.
type SweepDispatcher struct {
	enqueuer SweepEnqueuer
	state    SweepState
	interval time.Duration
	tick     time.Duration
	log      *logger.Logger
}

func NewSweepDispatcher(enqueuer SweepEnqueuer, state SweepState, interval time.Duration, log *logger.Logger) *SweepDispatcher {
	return &SweepDispatcher{
		enqueuer: enqueuer,
		state:    state,
		interval: interval,
		tick:     time.Hour,
		log:      log,
	}
}

func (d *SweepDispatcher) Run(ctx context.Context) {
	if d == nil || d.enqueuer == nil || d.state == nil {
		return
	}

	// Check once at startup so a long-stopped deployment catches up
	// without waiting for the first tick.
	d.dispatch(ctx)

	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		d.dispatch(ctx)
	}
}

func (d *SweepDispatcher) dispatch(ctx context.Context) {
	now := time.Now()

	claimed, err := d.state.ClaimSweep(ctx, now, now.Add(-d.interval))
	if err != nil {
		d.log.Warn("sweep claim failed", "error", err)
		return
	}
	if !claimed {
		return
	}

	if err := d.enqueuer.EnqueueFollowUpSweep(ctx, now); err != nil {
		d.log.Error("sweep enqueue failed", "error", err)
		return
	}
	d.log.Info("followup_sweep_enqueued", "requested_at", now)
}
