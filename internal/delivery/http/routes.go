package http

import (
	"github.com/gin-gonic/gin"

	"github.com/igomarket/backend/config"
	"github.com/igomarket/backend/internal/logger"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, log *logger.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestLogger(log))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	if cfg.RateLimit.PerIP > 0 {
		router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	}

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/batches", handler.IngestBatch)
		v1.GET("/compare", handler.Compare)
		v1.GET("/search", handler.Search)
		v1.GET("/stats", handler.Stats)
		v1.GET("/best-offers", handler.BestOffers)
		v1.POST("/cart", handler.CheapestCart)
		v1.GET("/snapshots", handler.Snapshots)
	}

	return router
}
