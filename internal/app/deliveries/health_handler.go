package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/gsalt-console/internal/app/middlewares"
	"github.com/safatanc/gsalt-console/internal/app/pkg"
	"github.com/safatanc/gsalt-console/internal/app/services"
	"github.com/safatanc/gsalt-console/pkg/ratelimit"
)

type HealthResponse struct {
	Service   string `json:"service"`
	OpenViews int    `json:"open_views"`
}

type HealthHandler struct {
	listSessions        *services.ListSessionService
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewHealthHandler(listSessions *services.ListSessionService, rateLimitMiddleware *middlewares.RateLimitMiddleware) *HealthHandler {
	return &HealthHandler{listSessions: listSessions, rateLimitMiddleware: rateLimitMiddleware}
}

func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.rateLimitMiddleware.LimitByIP(ratelimit.PublicLimit), h.GetHealth)
}

func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return pkg.SuccessResponse(c, HealthResponse{
		Service:   "gsalt-console",
		OpenViews: h.listSessions.OpenCount(),
	})
}
