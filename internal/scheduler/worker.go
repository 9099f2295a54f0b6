package scheduler

import (
	"context"
	"fmt"

	"roofline_backend/internal/followup/service"
	"roofline_backend/platform/config"
	"roofline_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Sweeper is the follow-up service surface the worker invokes.
type Sweeper interface {
	Sweep(ctx context.Context) (service.SweepResult, error)
}

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	sweeper Sweeper
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sweeper Sweeper, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		sweeper: sweeper,
		log:     log,
	}

	mux.HandleFunc(TaskFollowUpSweep, w.handleFollowUpSweep)

	return w, nil
}

func (w *Worker) handleFollowUpSweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpSweepPayload(task)
	if err != nil {
		return err
	}

	result, err := w.sweeper.Sweep(ctx)
	if err != nil {
		return err
	}

	w.log.Info("followup_sweep_task_done",
		"requested_at", payload.RequestedAt,
		"sent", result.FollowUpsSent,
		"results", len(result.Results),
	)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
