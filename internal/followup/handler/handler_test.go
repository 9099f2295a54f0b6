package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"roofline_backend/internal/followup/service"
	leaddomain "roofline_backend/internal/leads/domain"
	"roofline_backend/internal/leads/repository"
	"roofline_backend/platform/apperr"
	"roofline_backend/platform/httpkit"
	"roofline_backend/platform/logger"
	"roofline_backend/platform/validator"
)

type stubSweepState struct{ last time.Time }

func (s stubSweepState) LastSweepAt(context.Context) (time.Time, error) {
	return s.last, nil
}

type stubLeadStore struct{ lead repository.Lead }

func (s stubLeadStore) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	if id != s.lead.ID {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return s.lead, nil
}

func (s stubLeadStore) List(context.Context) ([]repository.Lead, error) {
	return []repository.Lead{s.lead}, nil
}

func (s stubLeadStore) ListOpen(context.Context) ([]repository.Lead, error) {
	return []repository.Lead{s.lead}, nil
}

func (s stubLeadStore) AdvanceLastContact(context.Context, uuid.UUID, time.Time) error {
	return nil
}

type stubSender struct{}

func (stubSender) SendFollowUpEmail(context.Context, string, string, string) error { return nil }

type stubConfig struct{}

func (stubConfig) GetSendTimeout() time.Duration { return time.Second }
func (stubConfig) GetSweepParallelism() int      { return 1 }

func testRouter(h *Handler, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != (uuid.UUID{}) {
			c.Set(httpkit.ContextUserIDKey, userID)
		}
		c.Next()
	})
	r.GET("/followups/status", h.Status)
	r.POST("/followups/send", h.Send)
	return r
}

func newHandler(sweeps SweepState, lead repository.Lead) *Handler {
	svc := service.New(stubLeadStore{lead: lead}, stubSender{}, stubConfig{}, logger.New("test"))
	return New(svc, sweeps, validator.New(), logger.New("test"))
}

func TestStatusReportsLastSweep(t *testing.T) {
	last := time.Date(2025, time.June, 10, 3, 0, 0, 0, time.UTC)
	h := newHandler(stubSweepState{last: last}, repository.Lead{})
	r := testRouter(h, uuid.UUID{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/followups/status", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		LastSweepAt *time.Time `json:"lastSweepAt"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.LastSweepAt == nil || !resp.LastSweepAt.Equal(last) {
		t.Fatalf("lastSweepAt = %v, want %v", resp.LastSweepAt, last)
	}
}

func TestStatusBeforeFirstSweep(t *testing.T) {
	h := newHandler(stubSweepState{}, repository.Lead{})
	r := testRouter(h, uuid.UUID{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/followups/status", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"lastSweepAt":null`) {
		t.Fatalf("body = %s, want null lastSweepAt", w.Body.String())
	}
}

func TestSendRecordsAuthenticatedCaller(t *testing.T) {
	lead := repository.Lead{
		ID: uuid.New(), Name: "Alice Carter", Email: "alice@example.com",
		Stage: leaddomain.StageQuoteSent, CreatedDate: time.Now(),
	}
	h := newHandler(stubSweepState{}, lead)
	r := testRouter(h, uuid.New())

	body := strings.NewReader(`{"leadId":"` + lead.ID.String() + `"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/followups/send", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Alice Carter") {
		t.Fatalf("body = %s, want lead name", w.Body.String())
	}
}
