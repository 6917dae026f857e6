package game

// Outbound message types.
const (
	TypePlayerID    = "player_id"
	TypeGameState   = "game_state"
	TypeGameTick    = "game_tick"
	TypeReset       = "reset"
	TypeChat        = "chat"
	TypeGameStopped = "game_stopped"
)

// Broadcaster delivers room messages to connected sessions. Implementations
// must not block: the simulation tick calls Broadcast while holding the
// room's state lock.
type Broadcaster interface {
	Broadcast(msg interface{})
	SendTo(sessionID string, msg interface{})
	// Close quietly ends a session's connection after flushing what was
	// already queued for it.
	Close(sessionID string)
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(interface{})      {}
func (nopBroadcaster) SendTo(string, interface{}) {}
func (nopBroadcaster) Close(string)               {}

// PlayerIDMessage is sent once to a newly connected session.
type PlayerIDMessage struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
	Team     TeamID `json:"team"`
}

type RosterEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PlayerView struct {
	Team    TeamID  `json:"team"`
	PaddleY float64 `json:"paddle_y"`
	IsBot   bool    `json:"is_bot"`
	Name    string  `json:"name,omitempty"`
}

// StateMessage is the low-frequency full snapshot.
type StateMessage struct {
	Type    string                   `json:"type"`
	State   Status                   `json:"state"`
	Teams   map[string][]RosterEntry `json:"teams"`
	Score   map[string]int           `json:"score"`
	Players map[string]PlayerView    `json:"players"`
	Wind    Wind                     `json:"wind"`
}

// TickMessage is the per-tick snapshot: ball and paddles only.
type TickMessage struct {
	Type    string                `json:"type"`
	Ball    Vec2                  `json:"ball"`
	Paddles map[string]PlayerView `json:"paddles"`
	Wind    bool                  `json:"wind"`
}

type ResetMessage struct {
	Type string `json:"type"`
}

type ChatMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type StoppedMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}
