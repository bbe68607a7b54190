package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-platform/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-platform/internal/auth"
	"github.com/spec-kit/helpdesk-platform/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Macros         *handlers.MacrosHandler
	Queue          *handlers.QueueHandler
	Categories     *handlers.CategoriesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Auth.Register)
	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/categories", cfg.Categories.ListCategories)
	protected.Post("/categories", auth.RequireCapability(domain.CapabilityFullAccess), cfg.Categories.CreateCategory)
	protected.Post("/categories/:id/move", auth.RequireCapability(domain.CapabilityFullAccess), cfg.Categories.MoveCategory)

	protected.Post("/tickets", cfg.Tickets.CreateTicket)
	protected.Get("/tickets/:id", cfg.Tickets.GetTicket)
	protected.Post("/tickets/:id/nudge", cfg.Tickets.NudgeTicket)

	protected.Post("/macros/:id/execute", auth.RequireCapability(domain.CapabilityAssignTickets), cfg.Macros.ExecuteMacro)

	protected.Get("/agent/queue", auth.RequireCapability(domain.CapabilityAssignTickets), cfg.Queue.TicketsToManage)
}
