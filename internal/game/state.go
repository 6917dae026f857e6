package game

// Status represents the current state of the room
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
)

// TeamID names one of the two sides of the board.
type TeamID string

const (
	TeamNone TeamID = ""
	Team1    TeamID = "Team 1"
	Team2    TeamID = "Team 2"
)

// Key is the wire key used in score and roster maps.
func (t TeamID) Key() string {
	switch t {
	case Team1:
		return "team1"
	case Team2:
		return "team2"
	}
	return ""
}
