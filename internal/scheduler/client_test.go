package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "followups" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestClientEnqueuesSweepTask(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	requestedAt := time.Date(2025, time.June, 10, 8, 0, 0, 0, time.UTC)
	if err := client.EnqueueFollowUpSweep(context.Background(), requestedAt); err != nil {
		t.Fatalf("EnqueueFollowUpSweep: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks("followups")
	if err != nil {
		t.Fatalf("ListPendingTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("pending tasks = %d, want 1", len(tasks))
	}
	if tasks[0].Type != TaskFollowUpSweep {
		t.Fatalf("task type = %q, want %q", tasks[0].Type, TaskFollowUpSweep)
	}

	payload, err := ParseFollowUpSweepPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if !payload.RequestedAt.Equal(requestedAt) {
		t.Fatalf("requestedAt = %v, want %v", payload.RequestedAt, requestedAt)
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("expected error for missing redis url")
	}
}
