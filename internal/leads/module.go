// Package leads provides the leads bounded context module: intake,
// questionnaire scoring, and funnel stage management.
package leads

import (
	"roofline_backend/internal/events"
	apphttp "roofline_backend/internal/http"
	"roofline_backend/internal/leads/handler"
	"roofline_backend/internal/leads/repository"
	"roofline_backend/internal/leads/service"
	"roofline_backend/platform/logger"
	"roofline_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger, phoneRegion string) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log, phoneRegion)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for use by the followup and insights modules.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.GetByID)
	group.PATCH("/:id/stage", m.handler.UpdateStage)
	group.POST("/:id/rescore", m.handler.Rescore)
	group.POST("/score-preview", m.handler.ScorePreview)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
