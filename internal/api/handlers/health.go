package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playpong/backend/internal/game"
	"github.com/playpong/backend/internal/ws"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck returns server health status
func HealthCheck(room *game.Room, hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"service":     "playpong-room",
			"version":     version,
			"uptime":      time.Since(startTime).String(),
			"game_state":  room.Status(),
			"players":     room.PlayerCount(),
			"connections": hub.Count(),
		})
	}
}
