package rest

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"inkwell/domain"
	"inkwell/pkg/logger"
	"inkwell/pkg/response"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// writeServiceError maps the domain error taxonomy onto HTTP statuses with
// stable reason codes. Anything outside the taxonomy is an upstream failure
// and stays generic toward the caller.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return c.JSON(http.StatusBadRequest, response.Error("VALIDATION_FAILED", err.Error(), nil))
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, response.Error("NOT_FOUND", err.Error(), nil))
	case errors.Is(err, domain.ErrAuthRequired):
		return c.JSON(http.StatusUnauthorized, response.Error("UNAUTHORIZED", err.Error(), nil))
	default:
		logger.Error("request failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, response.Error("INTERNAL", "internal server error", nil))
	}
}

// currentUserID reads the user id set by the auth middleware; empty for
// anonymous requests.
func currentUserID(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok {
		return v
	}
	return ""
}
