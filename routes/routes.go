package routes

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine) {
	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// FareHarbor deliveries
	RegisterWebhookRoutes(router)

	// Bike tracker app
	RegisterBikeTrackerRoutes(router)
}
