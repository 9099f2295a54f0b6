// Package followup provides the automated follow-up bounded context:
// stage-based follow-up rules, templated outreach emails, and the daily
// sweep over open leads.
package followup

import (
	"roofline_backend/internal/followup/handler"
	"roofline_backend/internal/followup/repository"
	"roofline_backend/internal/followup/service"
	apphttp "roofline_backend/internal/http"
	"roofline_backend/platform/logger"
	"roofline_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the follow-up bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	sweeps  *repository.Repo
}

// NewModule creates and initializes the follow-up module. It borrows the
// leads repository rather than owning lead persistence itself.
func NewModule(pool *pgxpool.Pool, leads service.LeadStore, sender service.EmailSender, cfg service.Config, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(leads, sender, cfg, log)
	sweeps := repository.New(pool)

	return &Module{
		handler: handler.New(svc, sweeps, val, log),
		service: svc,
		sweeps:  sweeps,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "followup"
}

// Service returns the service layer for use by the scheduler worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// SweepState returns the sweep bookkeeping repository for the scheduler.
func (m *Module) SweepState() *repository.Repo {
	return m.sweeps
}

// RegisterRoutes mounts follow-up routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/followups")
	group.GET("/status", m.handler.Status)
	group.POST("/process", m.handler.Process)
	group.POST("/send", m.handler.Send)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
