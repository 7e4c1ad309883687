package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"

	"inkwell/domain"
)

type (
	ProfileHandler struct {
		service ProfileService
		timeout time.Duration
	}

	ProfileService interface {
		Refresh(ctx context.Context, userID string) (*domain.UserProfile, error)
		Get(ctx context.Context, userID string) (*domain.UserProfile, error)
		Delete(ctx context.Context, userID string, cascade bool) error
	}
)

func NewProfileHandler(service ProfileService, timeout time.Duration) *ProfileHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ProfileHandler{
		service: service,
		timeout: timeout,
	}
}

// POST /api/v1/profiles/refresh
func (h *ProfileHandler) Refresh(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.service.Refresh(ctx, currentUserID(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	if profile == nil {
		// not an error: the user simply has no recorded actions yet
		return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]any{
			"profile": nil,
			"message": "insufficient data to build a profile",
		}))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}

// GET /api/v1/profiles/me
func (h *ProfileHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	profile, err := h.service.Get(ctx, currentUserID(c))
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(profile))
}

// DELETE /api/v1/profiles/me?cascade=true
func (h *ProfileHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	cascade := c.QueryParam("cascade") == "true"

	if err := h.service.Delete(ctx, currentUserID(c), cascade); err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("profile deleted"))
}
