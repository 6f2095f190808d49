package routes

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nablabits/fareharbor-webhook/config"
	"github.com/nablabits/fareharbor-webhook/database"
	"github.com/nablabits/fareharbor-webhook/middleware"
	"github.com/nablabits/fareharbor-webhook/services"
	"github.com/nablabits/fareharbor-webhook/types"
)

// RegisterBikeTrackerRoutes registers the bike tracker app endpoints
func RegisterBikeTrackerRoutes(router *gin.Engine) {
	tracker := router.Group("/bike-tracker")
	tracker.Use(middleware.TrackerAuthMiddleware())
	{
		tracker.GET("/get-services", getServices)
		tracker.POST("/add-bikes", addBikes)
		tracker.PUT("/replace-bike", replaceBike)
	}
}

func newTrackerService() (*services.BikeTrackerService, error) {
	cfg := config.AppConfig.BikeTracker
	return services.NewBikeTrackerService(database.GetDB(), services.BikeTrackerItems{
		RegularTours: cfg.RegularTours,
		PrivateTours: cfg.PrivateTours,
		Rentals:      cfg.Rentals,
	}, nil)
}

// getServices returns the day's trackable activities and the bike inventory,
// wrapped in a signed token so the tracker app can trust what it renders.
func getServices(c *gin.Context) {
	tracker, err := newTrackerService()
	if err != nil {
		log.Printf("❌ Failed to build tracker service: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not build the tracker service"})
		return
	}

	now := time.Now().UTC()
	activities, err := tracker.DailyActivities(now)
	if err != nil {
		log.Printf("❌ Failed to collect daily activities: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not collect the daily activities"})
		return
	}
	bikes, err := tracker.AvailableBikes()
	if err != nil {
		log.Printf("❌ Failed to list bikes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not list the bikes"})
		return
	}

	auth := config.AppConfig.Auth
	claims := types.ServicesClaims{
		Availabilities: activities,
		BikeUUIDs:      bikes,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(auth.JWTExpiryHours) * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(auth.JWTSecret))
	if err != nil {
		log.Printf("❌ Failed to sign services token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not sign the response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": token})
}

// decodeTokenBody parses a JWT-encoded request body into claims.
func decodeTokenBody(c *gin.Context, claims jwt.Claims) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	tokenString := strings.TrimSpace(string(body))
	if tokenString == "" {
		return fmt.Errorf("empty token body")
	}
	_, err = jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.Auth.JWTSecret), nil
	})
	if err != nil {
		return fmt.Errorf("parse token: %w", err)
	}
	return nil
}

// addBikes assigns a set of bikes to a booking or availability.
func addBikes(c *gin.Context) {
	var req types.AddBikesRequest
	if err := decodeTokenBody(c, &req); err != nil {
		log.Printf("🚫 Invalid add-bikes token: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	if req.AvailabilityID == nil || len(req.Bikes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "availability_id and bikes are required"})
		return
	}

	tracker, err := newTrackerService()
	if err != nil {
		log.Printf("❌ Failed to build tracker service: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not build the tracker service"})
		return
	}

	result, err := tracker.CreateBikeUsages(*req.AvailabilityID, req.Bikes, time.Now().UTC())
	if err != nil {
		log.Printf("❌ Failed to assign bikes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not assign the bikes"})
		return
	}
	if result.Failed() {
		c.JSON(http.StatusNotFound, gin.H{"errors": result.Errors})
		return
	}

	log.Printf("✅ Assigned %d bike(s) to availability %d", len(req.Bikes), result.Value.ID)
	c.JSON(http.StatusOK, gin.H{"success": "true"})
}

// replaceBike swaps one assigned bike for another.
func replaceBike(c *gin.Context) {
	var req types.ReplaceBikeRequest
	if err := decodeTokenBody(c, &req); err != nil {
		log.Printf("🚫 Invalid replace-bike token: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	if req.AvailabilityID == nil || req.BikePicked == nil || req.BikeReturned == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "availability_id, bike_picked and bike_returned are required"})
		return
	}

	tracker, err := newTrackerService()
	if err != nil {
		log.Printf("❌ Failed to build tracker service: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not build the tracker service"})
		return
	}

	result, err := tracker.UpdateBikeUsage(*req.AvailabilityID, *req.BikePicked, *req.BikeReturned, time.Now().UTC())
	if err != nil {
		log.Printf("❌ Failed to replace bike: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not replace the bike"})
		return
	}
	if result.Failed() {
		c.JSON(http.StatusNotFound, gin.H{"errors": result.Errors})
		return
	}

	log.Printf("✅ Replaced bike on availability %d", result.Value.ID)
	c.JSON(http.StatusOK, gin.H{"success": "true"})
}
