package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prijsradar/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		prices := v1.Group("/prices")
		{
			prices.POST("/search", handler.SearchPrices)
		}

		receipts := v1.Group("/receipts")
		{
			receipts.POST("/verify", handler.VerifyReceiptLine)
		}

		feedback := v1.Group("/feedback")
		{
			feedback.GET("/stats", handler.GetStats)
		}

		cat := v1.Group("/catalog")
		{
			cat.POST("/refresh", handler.RefreshCatalog)
			cat.GET("/status", handler.CatalogStatus)
		}

		v1.GET("/deals", handler.GetDeals)
	}

	return router
}
