package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"campus-preorder/internal/cart"
	"campus-preorder/internal/checkout"
	"campus-preorder/internal/dto"
	"campus-preorder/internal/service"
)

// statusFor maps a service error to its HTTP status and machine-readable code.
func statusFor(err error) (int, string) {
	switch {
	case checkout.IsPrecondition(err):
		return http.StatusUnprocessableEntity, checkout.Code(err)
	case errors.Is(err, checkout.ErrDuplicateSubmission):
		return http.StatusConflict, checkout.Code(err)
	case errors.Is(err, checkout.ErrCompensationFailed),
		errors.Is(err, checkout.ErrCreateFailed),
		errors.Is(err, checkout.ErrItemsFailed):
		return http.StatusBadGateway, checkout.Code(err)
	case errors.Is(err, service.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, cart.ErrLineNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, service.ErrAlreadyVendor):
		return http.StatusConflict, "already_vendor"
	case errors.Is(err, service.ErrItemUnavailable):
		return http.StatusUnprocessableEntity, "item_unavailable"
	case errors.Is(err, service.ErrVendorUnavailable):
		return http.StatusUnprocessableEntity, "vendor_unavailable"
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusBadRequest, "invalid_input"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// NewErrorHandler renders every handler error as dto.ErrorResponse. Server
// errors are logged and their cause is not sent to the client.
func NewErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status int
			body   dto.ErrorResponse
		)

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			body.Error = http.StatusText(status)
			if msg, ok := httpErr.Message.(string); ok {
				body.Error = msg
			}
		} else {
			status, body.Code = statusFor(err)
			body.Error = err.Error()
		}

		if status >= http.StatusInternalServerError {
			log.ErrorContext(c.Request().Context(), "request failed",
				slog.String("action", "http"),
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.Int("status", status),
				slog.Any("error", err),
			)
			if body.Code == "internal" {
				body.Error = http.StatusText(status)
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error("write error response", slog.String("action", "http"), slog.Any("error", err))
		}
	}
}

func bindError(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
}
