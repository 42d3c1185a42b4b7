package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/pkg/errs"
)

// errorBody is the structured error payload returned on every failure.
type errorBody struct {
	Code     int    `json:"code"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// writeError maps a handler error onto an HTTP status and structured body.
func writeError(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	category := "internal"

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code, category = http.StatusNotFound, "not_found"
	case errors.Is(err, commands.ErrCoverageNotSupported),
		errors.Is(err, commands.ErrDeliveryTypeNotAvailable):
		code, category = http.StatusUnprocessableEntity, "coverage"
	case errors.Is(err, commands.ErrRetryNotPending),
		errors.Is(err, errs.ErrInvalidStateTransition),
		errors.Is(err, errs.ErrDuplicateResource):
		code, category = http.StatusConflict, "conflict"
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code, category = http.StatusBadRequest, "validation"
	case errors.Is(err, errs.ErrUpstreamUnavailable):
		code, category = http.StatusServiceUnavailable, "upstream"
	}

	return c.JSON(code, errorBody{
		Code:     code,
		Category: category,
		Message:  err.Error(),
	})
}

// writeBadRequest reports a request that failed validation before reaching a
// handler.
func writeBadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, errorBody{
		Code:     http.StatusBadRequest,
		Category: "validation",
		Message:  message,
	})
}
