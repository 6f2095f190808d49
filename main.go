package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/nablabits/fareharbor-webhook/config"
	"github.com/nablabits/fareharbor-webhook/database"
	"github.com/nablabits/fareharbor-webhook/middleware"
	"github.com/nablabits/fareharbor-webhook/routes"
	"github.com/nablabits/fareharbor-webhook/services"
	"github.com/nablabits/fareharbor-webhook/utils"
)

func main() {
	populate := flag.Bool("populate", false, "replay the archived responses into the database and exit")
	seedBikes := flag.String("seed-bikes", "", "seed the bike fleet from a csv file and exit")
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash for a password and exit")
	flag.Parse()

	// hash-password needs no config or database
	if *hashPassword != "" {
		hash, err := utils.HashPassword(*hashPassword)
		if err != nil {
			log.Fatal("Failed to hash password:", err)
		}
		fmt.Println(hash)
		return
	}

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	if *populate {
		runPopulate()
		return
	}
	if *seedBikes != "" {
		runSeedBikes(*seedBikes)
		return
	}

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// FareHarbor posts to "/" and probes "/test/"; redirects would break both
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.AuditLogMiddleware())
	router.Use(cors.Default())

	routes.RegisterRoutes(router)

	port := config.AppConfig.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// runPopulate rebuilds the relational tables from the archived responses.
// Useful after a schema change or on a fresh database; already processed
// requests are skipped so reruns are safe.
func runPopulate() {
	populator := services.NewPopulateDB(database.GetDB(), config.AppConfig.Server.ResponsesPath)
	if err := populator.Run(); err != nil {
		log.Fatal("Populate failed:", err)
	}
	log.Printf("✅ Populate finished: %d processed, %d skipped", populator.Processed, populator.Skipped)
}

func runSeedBikes(path string) {
	count, err := SeedBikes(database.GetDB(), path)
	if err != nil {
		log.Fatal("Bike seeding failed:", err)
	}
	log.Printf("✅ Seeded %d bike(s)", count)
}
