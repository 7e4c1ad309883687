package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"inkwell/business/recommend"
	"inkwell/domain"
	"inkwell/pkg/metrics"
)

type (
	RecommendHandler struct {
		validate *validator.Validate
		service  RecommendService
		timeout  time.Duration
	}

	RecommendService interface {
		Recommend(ctx context.Context, req domain.RecommendationRequest) (*domain.RecommendationResult, error)
		Similar(ctx context.Context, seedID string, count int, excludeSameAuthor bool) (*recommend.SimilarResult, error)
		RecommendBatch(ctx context.Context, userID string, scenarios []domain.Scenario) map[string][]domain.Recommendation
	}

	RecommendQuery struct {
		Count         int    `query:"count"`
		Offset        int    `query:"offset"`
		CurrentPostID string `query:"current_post_id"`
		Source        string `query:"source"`
		SessionID     string `query:"session_id"`
		DeviceType    string `query:"device_type"`
		ExcludeIDs    string `query:"exclude_ids"`
		Debug         bool   `query:"debug"`
	}

	SimilarQuery struct {
		SeedContentID     string `query:"seed_content_id" validate:"required"`
		Count             int    `query:"count"`
		ExcludeSameAuthor bool   `query:"exclude_same_author"`
	}

	BatchRequest struct {
		Scenarios []ScenarioRequest `json:"scenarios" validate:"required,min=1,dive"`
	}

	ScenarioRequest struct {
		Key     string                `json:"key" validate:"required"`
		Count   int                   `json:"count"`
		Offset  int                   `json:"offset"`
		Context domain.RequestContext `json:"context"`
	}
)

func NewRecommendHandler(service RecommendService, timeout time.Duration) *RecommendHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RecommendHandler{
		validate: validator.New(),
		service:  service,
		timeout:  timeout,
	}
}

// GET /api/v1/recommendations?count=10&offset=0&current_post_id=...
func (h *RecommendHandler) Recommend(c echo.Context) error {
	started := time.Now()
	defer func() {
		metrics.RecommendLatency.Observe(time.Since(started).Seconds())
	}()

	var q RecommendQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if q.Count == 0 {
		q.Count = 10
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	req := domain.RecommendationRequest{
		UserID:     currentUserID(c),
		Count:      q.Count,
		Offset:     q.Offset,
		ExcludeIDs: splitIDs(q.ExcludeIDs),
		Debug:      q.Debug,
		Context: domain.RequestContext{
			CurrentPostID: q.CurrentPostID,
			Source:        q.Source,
			SessionID:     q.SessionID,
			DeviceType:    q.DeviceType,
		},
	}

	result, err := h.service.Recommend(ctx, req)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// POST /api/v1/recommendations/batch
func (h *RecommendHandler) RecommendBatch(c echo.Context) error {
	var req BatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	scenarios := make([]domain.Scenario, 0, len(req.Scenarios))
	for _, sc := range req.Scenarios {
		count := sc.Count
		if count == 0 {
			count = 10
		}
		scenarios = append(scenarios, domain.Scenario{
			Key:     sc.Key,
			Count:   count,
			Offset:  sc.Offset,
			Context: sc.Context,
		})
	}

	results := h.service.RecommendBatch(ctx, currentUserID(c), scenarios)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]any{
		"results": results,
	}))
}

// GET /api/v1/recommendations/similar?seed_content_id=...&count=5
func (h *RecommendHandler) Similar(c echo.Context) error {
	var q SimilarQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if q.Count == 0 {
		q.Count = 5
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.service.Similar(ctx, q.SeedContentID, q.Count, q.ExcludeSameAuthor)
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
