package middlewares

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/safatanc/gsalt-console/internal/app/errors"
	"github.com/safatanc/gsalt-console/internal/app/models"
	"github.com/safatanc/gsalt-console/internal/app/pkg"
)

// SessionLocal is the fiber local holding the *models.ConsoleSession.
const SessionLocal = "console_session"

// SessionResolver turns a bearer token into a console session.
type SessionResolver interface {
	Resolve(ctx context.Context, accessToken string) (*models.ConsoleSession, error)
}

type AuthMiddleware struct {
	sessions SessionResolver
}

func NewAuthMiddleware(sessions SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// AuthSession resolves the operator and rejects anyone who is not an admin.
func (m *AuthMiddleware) AuthSession(c *fiber.Ctx) error {
	token := utils.CopyString(c.Get("Authorization"))
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(models.WebResponse[any]{
			Success: false,
			Message: "Unauthorized",
		})
	}

	session, err := m.sessions.Resolve(c.UserContext(), token)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}
	if !session.IsAdmin() {
		return pkg.ErrorResponse(c, errors.NewForbiddenError("Console access requires the ADMIN role"))
	}

	c.Locals(SessionLocal, session)

	return c.Next()
}

// Session returns the operator stored by AuthSession.
func Session(c *fiber.Ctx) (*models.ConsoleSession, error) {
	session, ok := c.Locals(SessionLocal).(*models.ConsoleSession)
	if !ok || session == nil {
		return nil, errors.NewUnauthorizedError("User is not authenticated")
	}
	return session, nil
}
