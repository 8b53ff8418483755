package errors

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/sirupsen/logrus"
)

type AppError struct {
	StatusCode int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(statusCode int, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
	}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

func NewUnauthorizedError(message ...string) *AppError {
	if len(message) > 0 {
		return NewAppError(http.StatusUnauthorized, message[0])
	}
	return NewAppError(http.StatusUnauthorized, "Unauthorized")
}

func NewForbiddenError(message string) *AppError {
	return NewAppError(http.StatusForbidden, message)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message)
}

// NewTooManyRequestsError reports an exhausted rate limit and when it resets.
func NewTooManyRequestsError(message string, limit int, resetUnix int64) *AppError {
	return NewAppError(http.StatusTooManyRequests, fmt.Sprintf("%s (limit %d, resets at %d)", message, limit, resetUnix))
}

func NewServiceUnavailableError(message string) *AppError {
	return NewAppError(http.StatusServiceUnavailable, message)
}

func NewInternalServerError(originalError error, message string) *AppError {
	logrus.Errorf("[%s] %s", reflect.TypeOf(originalError).String(), originalError)
	return NewAppError(http.StatusInternalServerError, message)
}

// FromStatus builds an AppError for a non-2xx answer from the admin API.
// An empty message falls back to the status text.
func FromStatus(statusCode int, message string) *AppError {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return NewAppError(statusCode, message)
}
