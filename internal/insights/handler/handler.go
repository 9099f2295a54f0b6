package handler

import (
	"github.com/gin-gonic/gin"

	"roofline_backend/internal/insights/service"
	"roofline_backend/platform/httpkit"
)

// Handler handles HTTP requests for sales insights.
type Handler struct {
	svc *service.Service
}

// New creates a new insights handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Sales returns the aggregated sales insights payload.
// GET /api/v1/insights/sales
func (h *Handler) Sales(c *gin.Context) {
	result, err := h.svc.Sales(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"insights": result})
}
