package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"inkwell/business/action"
)

type (
	ActionHandler struct {
		validate *validator.Validate
		service  ActionService
		timeout  time.Duration
	}

	ActionService interface {
		Record(ctx context.Context, userID string, in action.ActionInput) (string, error)
		RecordBatch(ctx context.Context, userID string, inputs []action.ActionInput) (*action.BatchResult, error)
	}

	RecordActionRequest struct {
		ActionType string         `json:"action_type" validate:"required,oneof=view like unlike collect uncollect comment share"`
		TargetID   string         `json:"target_id" validate:"required"`
		TargetType string         `json:"target_type"`
		Value      float64        `json:"value"`
		Context    map[string]any `json:"context"`
	}

	RecordActionsBatchRequest struct {
		Actions []RecordActionRequest `json:"actions" validate:"required,min=1,dive"`
	}
)

func NewActionHandler(service ActionService, timeout time.Duration) *ActionHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ActionHandler{
		validate: validator.New(),
		service:  service,
		timeout:  timeout,
	}
}

// POST /api/v1/actions
func (h *ActionHandler) Record(c echo.Context) error {
	var req RecordActionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	actionID, err := h.service.Record(ctx, currentUserID(c), toInput(req))
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(map[string]string{
		"action_id": actionID,
	}))
}

// PUT /api/v1/actions/batch
func (h *ActionHandler) RecordBatch(c echo.Context) error {
	var req RecordActionsBatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	inputs := make([]action.ActionInput, 0, len(req.Actions))
	for _, a := range req.Actions {
		inputs = append(inputs, toInput(a))
	}

	result, err := h.service.RecordBatch(ctx, currentUserID(c), inputs)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

func toInput(req RecordActionRequest) action.ActionInput {
	return action.ActionInput{
		ActionType: req.ActionType,
		TargetID:   req.TargetID,
		TargetType: req.TargetType,
		Value:      req.Value,
		Context:    req.Context,
	}
}
