package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"roofline_backend/internal/followup/service"
	"roofline_backend/internal/followup/transport"
	"roofline_backend/platform/httpkit"
	"roofline_backend/platform/logger"
	"roofline_backend/platform/validator"
)

// SweepState reads the persisted sweep bookkeeping.
type SweepState interface {
	LastSweepAt(ctx context.Context) (time.Time, error)
}

// Handler handles HTTP requests for follow-ups.
type Handler struct {
	svc    *service.Service
	sweeps SweepState
	val    *validator.Validator
	log    *logger.Logger
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new follow-up handler.
func New(svc *service.Service, sweeps SweepState, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, sweeps: sweeps, val: val, log: log}
}

// Status reports when the automated sweep last ran. LastSweepAt is null
// until the first sweep completes.
// GET /api/v1/followups/status
func (h *Handler) Status(c *gin.Context) {
	last, err := h.sweeps.LastSweepAt(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	var resp transport.StatusResponse
	if !last.IsZero() {
		resp.LastSweepAt = &last
	}
	httpkit.OK(c, resp)
}

// Process runs the follow-up sweep over all open leads.
// POST /api/v1/followups/process
func (h *Handler) Process(c *gin.Context) {
	result, err := h.svc.Sweep(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Send sends an immediate follow-up to a single lead.
// POST /api/v1/followups/send
func (h *Handler) Send(c *gin.Context) {
	var req transport.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	leadID, err := uuid.Parse(req.LeadID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if userID, ok := httpkit.GetUserID(c); ok {
		h.log.Info("manual_followup_requested",
			"user_id", userID.String(),
			"lead_id", req.LeadID,
		)
	}

	lead, err := h.svc.SendNow(c.Request.Context(), leadID, req.FollowUpType)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SendResponse{
		Message:  "follow-up sent",
		LeadName: lead.Name,
	})
}
