package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"inkwell/app/echo-server/router"
	actionService "inkwell/business/action"
	profileService "inkwell/business/profile"
	"inkwell/business/recommend"
	"inkwell/business/scoring"
	"inkwell/internal/middleware"
	psqlRepo "inkwell/internal/repository/postgres"
	redisRepo "inkwell/internal/repository/redis"
	"inkwell/internal/rest"
	"inkwell/pkg/config"
	"inkwell/pkg/database"
	redisdb "inkwell/pkg/database/redis"
	"inkwell/pkg/logger"
	"inkwell/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Inkwell Recommendation API", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.InitRedis(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}

	// Init repo
	actionRepo := psqlRepo.NewActionRepository(db)
	contentRepo := psqlRepo.NewContentRepository(db)
	profileStore := redisRepo.NewProfileStore(redisClient, cfg.Engine.ProfileTTL)

	// Scoring weights: library defaults plus the env-tuned half-lives
	weights := scoring.DefaultWeights()
	weights.ActionHalfLifeDays = cfg.Engine.ActionHalfLifeDays
	weights.ContentHalfLifeDays = cfg.Engine.ContentHalfLifeDays

	// Init service
	actionSvc := actionService.NewActionService(actionRepo)
	profileSvc := profileService.NewProfileService(actionRepo, contentRepo, profileStore, weights, cfg.Engine.ActionWindowSize)
	recommendSvc := recommend.NewRecommendService(contentRepo, profileStore, scoring.NewScorer(weights), recommend.Options{
		CandidatePoolSize: cfg.Engine.CandidatePoolSize,
		MaxRunLength:      cfg.Engine.MaxRunLength,
	})

	// Init handler
	timeout := cfg.Server.RequestTimeout
	recommendHandler := rest.NewRecommendHandler(recommendSvc, timeout)
	actionHandler := rest.NewActionHandler(actionSvc, timeout)
	profileHandler := rest.NewProfileHandler(profileSvc, timeout)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware
	authRequired := middleware.AuthRequired(cfg.JWT.SecretKey)
	optionalAuth := middleware.OptionalAuth(cfg.JWT.SecretKey)

	// Setup routes
	api := e.Group("/api/v1")
	router.SetRecommendationRoutes(api, recommendHandler, optionalAuth)
	router.SetActionRoutes(api, actionHandler, optionalAuth)
	router.SetProfileRoutes(api, profileHandler, authRequired)

	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
