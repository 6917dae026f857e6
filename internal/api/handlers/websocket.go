package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playpong/backend/internal/game"
	"github.com/playpong/backend/internal/ws"
)

// HandleGameWebSocket handles real-time game communication
func HandleGameWebSocket(room *game.Room, hub *ws.Hub) gin.HandlerFunc {
	return ws.HandleWebSocket(room, hub)
}
