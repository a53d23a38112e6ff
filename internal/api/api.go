// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/api/handlers"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/api/middleware"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/config"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/metrics"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	InventoryService *service.InventoryService
	ConfigService    *service.ConfigService
	DashboardService *service.DashboardService
	Metrics          *metrics.Collector
}

func NewRouter(services *Services, allowedOrigins []string, auth config.AuthConfig) *gin.Engine {
	router := gin.New()

	var collector *metrics.Collector
	if services != nil {
		collector = services.Metrics
	}

	// Add middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger(collector))
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if collector != nil {
		router.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	apiGroup := router.Group("/api/v1")
	apiGroup.Use(middleware.Auth(auth))

	if services == nil {
		return router
	}

	if services.InventoryService != nil {
		inventoryHandler := handlers.NewInventoryHandler(services.InventoryService)
		inventoryGroup := apiGroup.Group("/inventory")
		{
			inventoryGroup.GET("", inventoryHandler.GetInventory)
			inventoryGroup.POST("/intake", inventoryHandler.RecordIntake)
			inventoryGroup.POST("/intake/bulk", inventoryHandler.RecordBulkIntake)
			inventoryGroup.POST("/distribution", inventoryHandler.RecordDistribution)
			inventoryGroup.GET("/history", inventoryHandler.GetHistory)
			inventoryGroup.GET("/activity", inventoryHandler.GetActivity)
		}
	}

	if services.DashboardService != nil {
		dashboardHandler := handlers.NewDashboardHandler(services.DashboardService)
		apiGroup.GET("/dashboard", dashboardHandler.GetDashboard)
		apiGroup.POST("/alerts/items", dashboardHandler.EvaluateItems)
	}

	if services.ConfigService != nil {
		configHandler := handlers.NewConfigHandler(services.ConfigService)
		unitsGroup := apiGroup.Group("/units")
		{
			unitsGroup.GET("", configHandler.GetUnits)
			unitsGroup.PUT("", configHandler.UpdateUnits)
			unitsGroup.GET("/convert", configHandler.Convert)
			unitsGroup.PATCH("/:unit", configHandler.SetUnitWeight)
		}
		apiGroup.GET("/settings", configHandler.GetSettings)
		apiGroup.PUT("/settings", configHandler.UpdateSettings)
		apiGroup.GET("/categories/resolve", configHandler.ResolveCategory)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
