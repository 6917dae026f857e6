package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/playpong/backend/internal/game"
)

// Inbound message types.
const (
	MsgJoin        = "join"
	MsgSetUsername = "set_username"
	MsgPaddleMove  = "paddle_move"
	MsgRestart     = "restart"
	MsgToggleWind  = "toggle_wind"
	MsgMessage     = "message"
	MsgChat        = "chat"
)

// WSMessage is an inbound client message. Fields may be sent flat or
// inside a "data" object.
type WSMessage struct {
	Type       string          `json:"type"`
	Data       json.RawMessage `json:"data,omitempty"`
	Username   string          `json:"username,omitempty"`
	PlayerID   string          `json:"player_id,omitempty"`
	Position   *float64        `json:"position,omitempty"`
	Delta      *float64        `json:"delta,omitempty"`
	PaddleY    *float64        `json:"paddle_y,omitempty"`
	WindEffect *bool           `json:"windEffect,omitempty"`
	Message    string          `json:"message,omitempty"`
}

// decodeMessage parses a raw frame, merging a "data" envelope into the
// top-level fields.
func decodeMessage(raw []byte) (WSMessage, error) {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return msg, err
	}
	if len(msg.Data) > 0 && msg.Data[0] == '{' {
		msgType, data := msg.Type, msg.Data
		msg.Data = nil
		if err := json.Unmarshal(data, &msg); err != nil {
			return msg, err
		}
		msg.Type = msgType
	}
	return msg, nil
}

// HandleWebSocket upgrades the request and seats the connection in the room.
func HandleWebSocket(room *game.Room, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := hub.newClient(conn, uuid.NewString())
		hub.register(client)
		go client.writePump()

		room.Connect(client.sessionID)
		go client.readPump(room)
	}
}

// readPump reads messages for one session in arrival order. Any read error
// is handled as a disconnect.
func (c *Client) readPump(room *game.Room) {
	defer func() {
		c.hub.unregister(c)
		room.Disconnect(c.sessionID)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Unexpected close for session %s: %v", c.sessionID, err)
			}
			return
		}

		msg, err := decodeMessage(raw)
		if err != nil {
			log.Printf("[WS] Malformed message from session %s: %v", c.sessionID, err)
			continue
		}
		c.handleMessage(room, msg)
	}
}

// handleMessage dispatches one inbound message to the room.
func (c *Client) handleMessage(room *game.Room, msg WSMessage) {
	switch msg.Type {
	case MsgJoin, MsgSetUsername:
		room.SetName(c.sessionID, msg.Username)

	case MsgPaddleMove:
		if msg.PlayerID != "" && msg.PlayerID != c.sessionID {
			log.Printf("[WS] Session %s tried to move paddle of %s; ignoring", c.sessionID, msg.PlayerID)
			return
		}
		switch {
		case msg.Position != nil:
			room.SetPaddle(c.sessionID, *msg.Position)
		case msg.Delta != nil:
			room.MovePaddle(c.sessionID, *msg.Delta)
		case msg.PaddleY != nil:
			room.MovePaddle(c.sessionID, *msg.PaddleY)
		}

	case MsgRestart:
		room.Restart()

	case MsgToggleWind:
		if msg.WindEffect == nil {
			log.Printf("[WS] toggle_wind without windEffect from session %s", c.sessionID)
			return
		}
		room.SetWind(*msg.WindEffect)

	case MsgMessage, MsgChat:
		if msg.Message == "" {
			return
		}
		room.Command(c.sessionID, msg.Message)

	default:
		log.Printf("[WS] Unknown message type %q from session %s", msg.Type, c.sessionID)
	}
}
