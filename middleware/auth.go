package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/nablabits/fareharbor-webhook/config"
)

// BasicAuthMiddleware authenticates a single identity via HTTP basic auth.
// The stored password is a bcrypt hash so a leaked environment never exposes
// the credential itself.
func BasicAuthMiddleware(user, passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqUser, reqPassword, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="fareharbor-webhook"`)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authentication required",
				"message": "Please provide basic auth credentials",
			})
			c.Abort()
			return
		}

		if reqUser != user || bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(reqPassword)) != nil {
			log.Printf("🚫 Failed basic auth attempt for user %q from %s", reqUser, c.ClientIP())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid credentials",
				"message": "Username or password is incorrect",
			})
			c.Abort()
			return
		}

		c.Set("auth_user", user)
		c.Next()
	}
}

// WebhookAuthMiddleware guards the FareHarbor delivery endpoint.
func WebhookAuthMiddleware() gin.HandlerFunc {
	auth := config.AppConfig.Auth
	return BasicAuthMiddleware(auth.WebhookUser, auth.WebhookPasswordHash)
}

// TrackerAuthMiddleware guards the bike tracker endpoints.
func TrackerAuthMiddleware() gin.HandlerFunc {
	auth := config.AppConfig.Auth
	return BasicAuthMiddleware(auth.TrackerUser, auth.TrackerPasswordHash)
}
