package router

import (
	"github.com/labstack/echo/v4"

	"inkwell/internal/rest"
)

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendHandler, optionalAuth echo.MiddlewareFunc) {
	reco := api.Group("/recommendations", optionalAuth)
	reco.GET("", handler.Recommend)
	reco.POST("/batch", handler.RecommendBatch)
	reco.GET("/similar", handler.Similar)
}

func SetActionRoutes(api *echo.Group, handler *rest.ActionHandler, optionalAuth echo.MiddlewareFunc) {
	// anonymous view tracking is allowed, so auth stays optional here and
	// the service decides per action type
	actions := api.Group("/actions", optionalAuth)
	actions.POST("", handler.Record)
	actions.PUT("/batch", handler.RecordBatch)
}

func SetProfileRoutes(api *echo.Group, handler *rest.ProfileHandler, authRequired echo.MiddlewareFunc) {
	profiles := api.Group("/profiles", authRequired)
	profiles.POST("/refresh", handler.Refresh)
	profiles.GET("/me", handler.Get)
	profiles.DELETE("/me", handler.Delete)
}
