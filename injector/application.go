package injector

import (
	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/gsalt-console/internal/app/deliveries"
	"github.com/safatanc/gsalt-console/internal/app/services"
)

// Application represents the main application container for gsalt-console
type Application struct {
	HealthHandler *deliveries.HealthHandler
	ListHandler   *deliveries.ListHandler
	AuditHandler  *deliveries.AuditHandler
	ListSessions  *services.ListSessionService
}

// RegisterRoutes registers all application routes using a Fiber router
func (app *Application) RegisterRoutes(router fiber.Router) {
	app.HealthHandler.RegisterRoutes(router)
	app.ListHandler.RegisterRoutes(router)
	app.AuditHandler.RegisterRoutes(router)
}
