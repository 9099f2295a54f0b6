package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/roofline_test")
	t.Setenv("JWT_ACCESS_SECRET", "test-secret")
	t.Setenv("EMAIL_ENABLED", "false")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.SweepInterval != 24*time.Hour {
		t.Fatalf("SweepInterval = %v, want 24h", cfg.SweepInterval)
	}
	if cfg.SendTimeout != 5*time.Second {
		t.Fatalf("SendTimeout = %v, want 5s", cfg.SendTimeout)
	}
	if cfg.SweepParallelism != 4 {
		t.Fatalf("SweepParallelism = %d, want 4", cfg.SweepParallelism)
	}
}

func TestLoadRejectsZeroSweepParallelism(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FOLLOWUP_SWEEP_PARALLELISM", "0")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "FOLLOWUP_SWEEP_PARALLELISM") {
		t.Fatalf("err = %v, want parallelism rejection", err)
	}
}

func TestLoadRejectsMalformedInteger(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FOLLOWUP_SWEEP_PARALLELISM", "several")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "FOLLOWUP_SWEEP_PARALLELISM") {
		t.Fatalf("err = %v, want parse failure", err)
	}
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FOLLOWUP_SWEEP_INTERVAL", "daily")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "FOLLOWUP_SWEEP_INTERVAL") {
		t.Fatalf("err = %v, want parse failure", err)
	}
}
