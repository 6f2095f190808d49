package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	BikeTracker BikeTrackerConfig
}

type ServerConfig struct {
	Port          string
	GinMode       string
	ResponsesPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AuthConfig carries the two basic-auth identities, one for FareHarbor
// webhook deliveries and one for the bike tracker app, plus the JWT signing
// key for tracker payloads. Passwords are bcrypt hashes, never plain text.
type AuthConfig struct {
	WebhookUser         string
	WebhookPasswordHash string
	TrackerUser         string
	TrackerPasswordHash string
	JWTSecret           string
	JWTExpiryHours      int
}

// BikeTrackerConfig lists the FareHarbor item ids the tracker watches. The
// defaults match the live catalogue; override via env when items rotate.
type BikeTrackerConfig struct {
	RegularTours []int64
	PrivateTours []int64
	Rentals      []int64
}

var AppConfig *Config

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			GinMode:       getEnv("GIN_MODE", "debug"),
			ResponsesPath: getEnv("RESPONSES_PATH", "responses"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "fareharbor_webhook_db"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Auth: AuthConfig{
			WebhookUser:         getEnv("FH_USER", "fareharbor"),
			WebhookPasswordHash: getEnv("FH_PASSWORD_HASH", ""),
			TrackerUser:         getEnv("BT_USER", "bike-tracker"),
			TrackerPasswordHash: getEnv("BT_PASSWORD_HASH", ""),
			JWTSecret:           getEnv("JWT_SECRET", "change-this-in-production"),
			JWTExpiryHours:      getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		},
		BikeTracker: BikeTrackerConfig{
			RegularTours: getEnvAsInt64List("BT_REGULAR_TOURS", []int64{159053, 159055, 159056, 234853, 234990}),
			PrivateTours: getEnvAsInt64List("BT_PRIVATE_TOURS", []int64{159057, 159058, 159060, 159065}),
			Rentals:      getEnvAsInt64List("BT_RENTALS", []int64{159068, 159074, 159100, 159103, 235262, 265105}),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64List(key string, defaultValue []int64) []int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return defaultValue
		}
		ids = append(ids, id)
	}
	return ids
}
