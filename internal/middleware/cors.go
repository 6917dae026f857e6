package middleware

import (
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/playpong/backend/internal/config"
)

// CORSMiddleware returns a CORS middleware configured for the environment
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	log.Printf("[CORS] Environment: %s, FrontendURL: %s", cfg.Environment, cfg.FrontendURL)

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", "Accept", "Cache-Control", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour, // Cache preflight responses
	}

	if cfg.Environment == "development" || cfg.FrontendURL == "" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = []string{cfg.FrontendURL}
		log.Printf("[CORS] Production allowed origins: %v", corsConfig.AllowOrigins)
	}

	return cors.New(corsConfig)
}

// WebSocketCORSCheck validates WebSocket upgrade origins. Same-host origins
// (the bundled client page) are always allowed.
func WebSocketCORSCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only check for WebSocket upgrade requests
		if !strings.Contains(strings.ToLower(c.GetHeader("Connection")), "upgrade") ||
			strings.ToLower(c.GetHeader("Upgrade")) != "websocket" {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin == "" || originAllowed(cfg, origin, c.Request.Host) {
			c.Next()
			return
		}

		log.Printf("[CORS] Rejected WebSocket origin %s", origin)
		c.JSON(403, gin.H{"error": "WebSocket origin not allowed"})
		c.Abort()
	}
}

func originAllowed(cfg *config.Config, origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Host == host {
		return true
	}
	if cfg.Environment == "development" {
		return u.Hostname() == "localhost" || u.Hostname() == "127.0.0.1"
	}
	return cfg.FrontendURL != "" && origin == cfg.FrontendURL
}
