package api

import (
	"github.com/gin-gonic/gin"
	"github.com/playpong/backend/internal/api/handlers"
	"github.com/playpong/backend/internal/config"
	"github.com/playpong/backend/internal/game"
	"github.com/playpong/backend/internal/middleware"
	"github.com/playpong/backend/internal/ws"
)

// SetupRoutes configures the client page, the room websocket and health.
func SetupRoutes(router *gin.Engine, room *game.Room, hub *ws.Hub, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	router.GET("/", handlers.ServeIndex(cfg))
	router.GET("/health", handlers.HealthCheck(room, hub))
	router.GET("/ws", middleware.WebSocketCORSCheck(cfg), handlers.HandleGameWebSocket(room, hub))
}
