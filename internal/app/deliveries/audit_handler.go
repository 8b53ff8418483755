package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/gsalt-console/internal/app/errors"
	"github.com/safatanc/gsalt-console/internal/app/middlewares"
	"github.com/safatanc/gsalt-console/internal/app/models"
	"github.com/safatanc/gsalt-console/internal/app/pkg"
	"github.com/safatanc/gsalt-console/internal/app/services"
	"github.com/safatanc/gsalt-console/internal/infrastructures"
	"github.com/safatanc/gsalt-console/pkg/ratelimit"
)

type AuditHandler struct {
	auditService        *services.AuditService
	authMiddleware      *middlewares.AuthMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
	validator           *infrastructures.Validator
}

func NewAuditHandler(
	auditService *services.AuditService,
	authMiddleware *middlewares.AuthMiddleware,
	rateLimitMiddleware *middlewares.RateLimitMiddleware,
	validator *infrastructures.Validator,
) *AuditHandler {
	return &AuditHandler{
		auditService:        auditService,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
		validator:           validator,
	}
}

func (h *AuditHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/audit-logs",
		h.authMiddleware.AuthSession,
		h.rateLimitMiddleware.LimitByActor("audit", ratelimit.ListLimit),
		h.GetAuditLogs,
	)
}

func (h *AuditHandler) GetAuditLogs(c *fiber.Ctx) error {
	var pagination models.PaginationRequest
	if err := c.QueryParser(&pagination); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid query parameters"))
	}
	if err := h.validator.Validate(&pagination); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	logs, err := h.auditService.GetAuditLogs(&pagination)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, logs)
}
