// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/api"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/cache"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/config"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/metrics"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/service"
	"github.com/andresuchdata/foodbank-tracker/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
		logger.UseJSON()
	}
	logger.SetLevel(cfg.Log.Level)

	if !cfg.Auth.Disabled && cfg.Auth.JWTSecret == "" {
		logger.Log.Fatal().Msg("AUTH_JWT_SECRET is required unless AUTH_DISABLED is set")
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	applied, err := postgres.Migrate(ctx, db.DB.DB)
	cancel()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to apply migrations")
	}
	logger.Log.Info().Int("applied", applied).Msg("Migrations up to date")

	// Initialize cache
	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, dashboard cache disabled")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	// Initialize services
	collector := metrics.NewCollector()
	inventoryStore := postgres.NewInventoryRepository(db, cfg.Inventory.ActivityLimit)
	configStore := postgres.NewConfigRepository(db)

	defaults := domain.Settings{
		TargetCapacity: cfg.Inventory.TargetCapacity,
		Tolerance:      cfg.Inventory.Tolerance,
	}
	configService := service.NewConfigService(configStore, defaults, dashboardCache)
	services := &api.Services{
		InventoryService: service.NewInventoryService(inventoryStore, configService, collector),
		ConfigService:    configService,
		DashboardService: service.NewDashboardService(inventoryStore, configService, dashboardCache, collector, cfg.Inventory.HistoryWindowDays),
		Metrics:          collector,
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins, cfg.Auth)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
