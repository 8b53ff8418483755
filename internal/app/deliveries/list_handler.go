package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/safatanc/gsalt-console/internal/app/errors"
	"github.com/safatanc/gsalt-console/internal/app/middlewares"
	"github.com/safatanc/gsalt-console/internal/app/models"
	"github.com/safatanc/gsalt-console/internal/app/pkg"
	"github.com/safatanc/gsalt-console/internal/app/services"
	"github.com/safatanc/gsalt-console/internal/infrastructures"
	"github.com/safatanc/gsalt-console/pkg/ratelimit"
)

type ListHandler struct {
	listSessions        *services.ListSessionService
	authMiddleware      *middlewares.AuthMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
	validator           *infrastructures.Validator
}

func NewListHandler(
	listSessions *services.ListSessionService,
	authMiddleware *middlewares.AuthMiddleware,
	rateLimitMiddleware *middlewares.RateLimitMiddleware,
	validator *infrastructures.Validator,
) *ListHandler {
	return &ListHandler{
		listSessions:        listSessions,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
		validator:           validator,
	}
}

func (h *ListHandler) RegisterRoutes(router fiber.Router) {
	listGroup := router.Group("/lists/:resource", h.authMiddleware.AuthSession)
	read := h.rateLimitMiddleware.LimitByActor("lists", ratelimit.ListLimit)
	destructive := h.rateLimitMiddleware.LimitByActor("deletes", ratelimit.DeleteLimit)

	listGroup.Get("/", read, h.GetList)
	listGroup.Put("/search", read, h.SetSearch)
	listGroup.Put("/filters", read, h.SetFilter)
	listGroup.Delete("/filters", read, h.ClearFilters)
	listGroup.Put("/page", read, h.SetPage)
	listGroup.Put("/page-size", read, h.SetPageSize)
	listGroup.Post("/refresh", read, h.Refresh)
	listGroup.Post("/retry", read, h.Retry)
	listGroup.Delete("/error", read, h.ClearError)
	listGroup.Post("/selection/:id", read, h.ToggleSelect)
	listGroup.Post("/selection", read, h.ToggleSelectAll)
	listGroup.Delete("/selection", read, h.ClearSelection)
	listGroup.Delete("/items/:id", destructive, h.DeleteItem)
	listGroup.Post("/bulk-delete", destructive, h.BulkDelete)
}

func (h *ListHandler) view(c *fiber.Ctx) (services.ListView, error) {
	session, err := middlewares.Session(c)
	if err != nil {
		return nil, err
	}
	return h.listSessions.View(c.UserContext(), session, c.Params("resource"))
}

// withView runs fn against the operator's view and answers with its snapshot.
func (h *ListHandler) withView(c *fiber.Ctx, fn func(view services.ListView) error) error {
	view, err := h.view(c)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}
	if err := fn(view); err != nil {
		return pkg.ErrorResponse(c, err)
	}
	return pkg.SuccessResponse(c, view.Snapshot())
}

func (h *ListHandler) GetList(c *fiber.Ctx) error {
	return h.withView(c, func(services.ListView) error { return nil })
}

func (h *ListHandler) SetSearch(c *fiber.Ctx) error {
	var req models.ListSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid request body"))
	}
	if err := h.validator.Validate(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}
	return h.withView(c, func(view services.ListView) error {
		view.SetSearchInput(req.Text)
		return nil
	})
}

func (h *ListHandler) SetFilter(c *fiber.Ctx) error {
	var req models.ListFilterRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid request body"))
	}
	if err := h.validator.Validate(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	session, err := middlewares.Session(c)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}
	view, err := h.listSessions.SetFilter(c.UserContext(), session, c.Params("resource"), req.Key, req.Value)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}
	return pkg.SuccessResponse(c, view.Snapshot())
}

func (h *ListHandler) ClearFilters(c *fiber.Ctx) error {
	return h.withView(c, func(view services.ListView) error {
		view.ClearFilters()
		return nil
	})
}

func (h *ListHandler) SetPage(c *fiber.Ctx) error {
	var req models.ListPageRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid request body"))
	}
	return h.withView(c, func(view services.ListView) error {
		view.SetPage(req.Page)
		return nil
	})
}

func (h *ListHandler) SetPageSize(c *fiber.Ctx) error {
	var req models.ListPageSizeRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid request body"))
	}
	if err := h.validator.Validate(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}
	return h.withView(c, func(view services.ListView) error {
		return view.SetPageSize(req.PageSize)
	})
}

func (h *ListHandler) Refresh(c *fiber.Ctx) error {
	return h.withView(c, func(view services.ListView) error {
		view.Refresh()
		return nil
	})
}

func (h *ListHandler) Retry(c *fiber.Ctx) error {
	return h.withView(c, func(view services.ListView) error {
		if !view.Retry() {
			return errors.NewBadRequestError("Nothing to retry")
		}
		return nil
	})
}

func (h *ListHandler) ClearError(c *fiber.Ctx) error {
	return h.withView(c, func(view services.ListView) error {
		view.ClearError()
		return nil
	})
}

func (h *ListHandler) ToggleSelect(c *fiber.Ctx) error {
	return h.withView(c, func(view services.ListView) error {
		view.ToggleSelect(utils.CopyString(c.Params("id")))
		return nil
	})
}

func (h *ListHandler) ToggleSelectAll(c *fiber.Ctx) error {
	return h.withView(c, func(view services.ListView) error {
		view.ToggleSelectAll()
		return nil
	})
}

func (h *ListHandler) ClearSelection(c *fiber.Ctx) error {
	return h.withView(c, func(view services.ListView) error {
		view.ClearSelection()
		return nil
	})
}

func (h *ListHandler) DeleteItem(c *fiber.Ctx) error {
	session, err := middlewares.Session(c)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	view, err := h.listSessions.DeleteOne(c.UserContext(), session, c.Params("resource"), utils.CopyString(c.Params("id")))
	if view == nil {
		return pkg.ErrorResponse(c, err)
	}
	if err != nil {
		return pkg.FailureResponse(c, err, view.Snapshot())
	}
	return pkg.SuccessResponse(c, view.Snapshot())
}

func (h *ListHandler) BulkDelete(c *fiber.Ctx) error {
	session, err := middlewares.Session(c)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	view, err := h.listSessions.BulkDelete(c.UserContext(), session, c.Params("resource"))
	if view == nil {
		return pkg.ErrorResponse(c, err)
	}
	if err != nil {
		return pkg.FailureResponse(c, err, view.Snapshot())
	}
	return pkg.SuccessResponse(c, view.Snapshot())
}
