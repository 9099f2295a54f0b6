// Package insights provides read-only sales analytics over the lead
// pipeline: urgent and stagnant lead signals, funnel metrics, and
// actionable recommendations.
package insights

import (
	apphttp "roofline_backend/internal/http"
	"roofline_backend/internal/insights/handler"
	"roofline_backend/internal/insights/service"
	"roofline_backend/internal/leads/repository"
)

// Module is the insights bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule creates the insights module over the shared leads repository.
func NewModule(leads repository.LeadReader) *Module {
	return &Module{handler: handler.New(service.New(leads))}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "insights"
}

// RegisterRoutes mounts insights routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/insights")
	group.GET("/sales", m.handler.Sales)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
