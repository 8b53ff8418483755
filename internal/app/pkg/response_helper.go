package pkg

import (
	"errors"
	"reflect"

	"github.com/gofiber/fiber/v2"
	appError "github.com/safatanc/gsalt-console/internal/app/errors"
	"github.com/safatanc/gsalt-console/internal/app/models"
	"github.com/safatanc/gsalt-console/pkg/listctl"
	"github.com/sirupsen/logrus"
)

func SuccessResponse[T any](c *fiber.Ctx, data T) error {
	return c.JSON(models.WebResponse[T]{
		Success: true,
		Data:    data,
	})
}

// FailureResponse answers with an error message and still carries data, used
// when a list mutation failed but the caller needs the resulting view.
func FailureResponse[T any](c *fiber.Ctx, err error, data T) error {
	return c.Status(StatusOf(err)).JSON(models.WebResponse[T]{
		Success: false,
		Message: err.Error(),
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, err error) error {
	status := StatusOf(err)
	if status == fiber.StatusInternalServerError {
		logrus.Errorf("[%s] %s", reflect.TypeOf(err).String(), err)
		return c.Status(status).JSON(models.WebResponse[any]{
			Success: false,
			Message: "Internal Server Error",
		})
	}

	message := err.Error()
	var appErr *appError.AppError
	if errors.As(err, &appErr) && (isAuthFailure(appErr) || listctl.KindOf(err) == listctl.KindUnknown) {
		message = appErr.Message
	}
	return c.Status(status).JSON(models.WebResponse[any]{
		Success: false,
		Message: message,
	})
}

// StatusOf maps err to an HTTP status. A wrapped 401 or 403 from the admin API
// wins over the list controller kind so the caller re-authenticates. Other
// list controller kinds are checked before AppError because mutation failures
// wrap the remote AppError.
func StatusOf(err error) int {
	var appErr *appError.AppError
	if errors.As(err, &appErr) && isAuthFailure(appErr) {
		return appErr.StatusCode
	}

	switch listctl.KindOf(err) {
	case listctl.KindMutationFailed, listctl.KindPartialBulkFailure:
		return fiber.StatusUnprocessableEntity
	case listctl.KindFetchFailed:
		return fiber.StatusBadGateway
	case listctl.KindInvalidArgument:
		return fiber.StatusBadRequest
	}
	if errors.Is(err, listctl.ErrClosed) {
		return fiber.StatusConflict
	}

	if appErr != nil {
		return appErr.StatusCode
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}

func isAuthFailure(err *appError.AppError) bool {
	return err.StatusCode == fiber.StatusUnauthorized || err.StatusCode == fiber.StatusForbidden
}
