package http

import (
	"github.com/gin-gonic/gin"

	"github.com/CarlyGallagher/christmas-planner/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware; request ids first so the other middleware can log them
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.POST("/extract", handler.ExtractProduct)
		}

		holidays := v1.Group("/holidays")
		{
			holidays.GET("/:year", handler.Holidays)
		}
	}

	return router
}
