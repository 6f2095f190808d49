package routes

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nablabits/fareharbor-webhook/config"
	"github.com/nablabits/fareharbor-webhook/database"
	"github.com/nablabits/fareharbor-webhook/middleware"
	"github.com/nablabits/fareharbor-webhook/services"
	"github.com/nablabits/fareharbor-webhook/types"
)

// RegisterWebhookRoutes registers the FareHarbor delivery endpoints
func RegisterWebhookRoutes(router *gin.Engine) {
	router.GET("/test/", middleware.WebhookAuthMiddleware(), testConnection)
	router.POST("/", middleware.WebhookAuthMiddleware(), processWebhook)
}

// testConnection lets FareHarbor (and the deploy pipeline) verify the
// endpoint and its credentials without sending a booking.
func testConnection(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": "true"})
}

// processWebhook handles one FareHarbor delivery. The raw body is archived to
// disk before any parsing so a normalization bug never loses the payload; the
// relational write happens in a single transaction afterwards.
func processWebhook(c *gin.Context) {
	timestamp := time.Now().UTC()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrEmptyPayload.Error()})
		return
	}

	filename, err := services.SaveResponseAsFile(body, config.AppConfig.Server.ResponsesPath, timestamp)
	if err != nil {
		log.Printf("❌ Failed to archive webhook payload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not archive the payload"})
		return
	}

	var doc types.WebhookDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		log.Printf("❌ Malformed webhook payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "The payload is not valid JSON"})
		return
	}
	if doc.Booking == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrEmptyPayload.Error()})
		return
	}

	storedRequest, err := services.SaveRequestToDB(database.GetDB(), &doc, body, timestamp, filename)
	if err != nil {
		var missing *services.MissingFieldError
		if errors.As(err, &missing) {
			log.Printf("❌ Webhook payload missing %s", missing.Path)
			c.JSON(http.StatusBadRequest, gin.H{"error": missing.Error()})
			return
		}
		log.Printf("❌ Failed to process webhook payload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not process the payload"})
		return
	}

	log.Printf("✅ Processed request %d (%s)", storedRequest.ID, filename)
	c.JSON(http.StatusOK, gin.H{"success": "true"})
}
