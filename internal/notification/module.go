// Package notification provides the client notification bounded context:
// milestone completion and project health emails with duplicate
// suppression, plus hot-lead SMS alerts for the sales team.
package notification

import (
	"roofline_backend/internal/events"
	apphttp "roofline_backend/internal/http"
	"roofline_backend/internal/notification/handler"
	"roofline_backend/internal/notification/repository"
	"roofline_backend/internal/notification/service"
	"roofline_backend/platform/logger"
	"roofline_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the notification bounded context module implementing
// http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the notification module and subscribes its event
// handlers on the bus.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, email service.EmailSender, sms service.SMSSender, alertRecipient, fromName, fromEmail string, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, email, sms, alertRecipient, fromName, fromEmail, log)
	svc.RegisterSubscribers(eventBus)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// RegisterRoutes mounts notification routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/notifications")
	group.GET("/check", m.handler.Check)
	group.POST("/milestone-completed", m.handler.MilestoneCompleted)
	group.POST("/project-health", m.handler.ProjectHealth)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
