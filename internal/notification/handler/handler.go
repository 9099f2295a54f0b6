package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"roofline_backend/internal/notification/service"
	"roofline_backend/internal/notification/transport"
	"roofline_backend/platform/httpkit"
	"roofline_backend/platform/validator"
)

// Handler handles HTTP requests for client notifications.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new notification handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Check lists completed milestones awaiting a client notification.
// GET /api/v1/notifications/check
func (h *Handler) Check(c *gin.Context) {
	result, err := h.svc.Check(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// MilestoneCompleted sends a milestone completion notification.
// POST /api/v1/notifications/milestone-completed
func (h *Handler) MilestoneCompleted(c *gin.Context) {
	var req transport.MilestoneCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	milestoneID, err := uuid.Parse(req.MilestoneID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	message, milestone, err := h.svc.MilestoneCompleted(c.Request.Context(), milestoneID, projectID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.MilestoneCompletedResponse{
		Message:   message,
		Milestone: milestone.Name,
	})
}

// ProjectHealth sends a project status change notification.
// POST /api/v1/notifications/project-health
func (h *Handler) ProjectHealth(c *gin.Context) {
	var req transport.ProjectHealthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	message, err := h.svc.ProjectHealthChanged(c.Request.Context(), projectID, req.PreviousStatus, req.NewStatus, req.Reason)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ProjectHealthResponse{
		Message: message,
		Status:  req.NewStatus,
	})
}
