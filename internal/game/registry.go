package game

import (
	"fmt"
	"regexp"
)

var botNamePattern = regexp.MustCompile(`^Bot [0-9]+$`)

// isBotName reports whether name has the reserved "Bot N" form.
func isBotName(name string) bool {
	return botNamePattern.MatchString(name)
}

// Player is one seat in the room: a connected client session or a bot.
type Player struct {
	ID      string
	Name    string
	Team    TeamID
	PaddleY float64
	IsBot   bool

	bot *botTask // running control task, bots only
}

// DisplayName is the name shown in chat relays.
func (p *Player) DisplayName() string {
	if p.Name == "" {
		return "anonymous"
	}
	return p.Name
}

// Team holds a side's cumulative score and its roster in join order.
type Team struct {
	ID     TeamID
	Score  int
	roster []*Player
}

func (t *Team) remove(p *Player) {
	for i, m := range t.roster {
		if m == p {
			t.roster = append(t.roster[:i], t.roster[i+1:]...)
			return
		}
	}
}

// Registry tracks every seated player and the two team rosters.
// It is not safe for concurrent use; Room guards it with its state lock.
type Registry struct {
	players  map[string]*Player
	team1    *Team
	team2    *Team
	bots     []string // bot ids, most recent last
	botCount int
}

// NewRegistry creates an empty registry with both teams at zero.
func NewRegistry() *Registry {
	return &Registry{
		players: make(map[string]*Player),
		team1:   &Team{ID: Team1},
		team2:   &Team{ID: Team2},
	}
}

// Team returns the team record for id, or nil.
func (r *Registry) Team(id TeamID) *Team {
	switch id {
	case Team1:
		return r.team1
	case Team2:
		return r.team2
	}
	return nil
}

// smallerTeam picks the roster a new player joins; ties go to Team 1.
func (r *Registry) smallerTeam() *Team {
	if len(r.team1.roster) <= len(r.team2.roster) {
		return r.team1
	}
	return r.team2
}

func (r *Registry) seat(p *Player) *Player {
	team := r.smallerTeam()
	p.Team = team.ID
	p.PaddleY = PaddleStart
	team.roster = append(team.roster, p)
	r.players[p.ID] = p
	return p
}

// AddPlayer seats a human on the smaller team. Adding an id that is
// already seated returns the existing player.
func (r *Registry) AddPlayer(id string) *Player {
	if p, ok := r.players[id]; ok {
		return p
	}
	return r.seat(&Player{ID: id})
}

// AddBot seats a bot on the smaller team and names it after the bot counter.
func (r *Registry) AddBot(id string) *Player {
	if p, ok := r.players[id]; ok {
		return p
	}
	r.botCount++
	p := r.seat(&Player{ID: id, IsBot: true, Name: fmt.Sprintf("Bot %d", r.botCount)})
	r.bots = append(r.bots, id)
	return p
}

// Remove unseats a player. Unknown ids return nil.
func (r *Registry) Remove(id string) *Player {
	p, ok := r.players[id]
	if !ok {
		return nil
	}
	delete(r.players, id)
	if team := r.Team(p.Team); team != nil {
		team.remove(p)
	}
	if p.IsBot {
		for i, b := range r.bots {
			if b == id {
				r.bots = append(r.bots[:i], r.bots[i+1:]...)
				break
			}
		}
	}
	return p
}

// PopBot removes the most recently added bot.
func (r *Registry) PopBot() *Player {
	if len(r.bots) == 0 {
		return nil
	}
	p := r.Remove(r.bots[len(r.bots)-1])
	if r.botCount > 0 {
		r.botCount--
	}
	return p
}

// RemoveAllBots removes every bot and resets the bot counter.
func (r *Registry) RemoveAllBots() []*Player {
	removed := make([]*Player, 0, len(r.bots))
	for len(r.bots) > 0 {
		removed = append(removed, r.Remove(r.bots[len(r.bots)-1]))
	}
	r.botCount = 0
	return removed
}

func (r *Registry) Get(id string) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// FindByName returns the seated player carrying name, or nil.
func (r *Registry) FindByName(name string) *Player {
	for _, p := range r.Players() {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Players lists Team 1's roster followed by Team 2's, each in join order.
func (r *Registry) Players() []*Player {
	out := make([]*Player, 0, len(r.players))
	out = append(out, r.team1.roster...)
	return append(out, r.team2.roster...)
}

// Bots lists bots in the order they were added.
func (r *Registry) Bots() []*Player {
	out := make([]*Player, 0, len(r.bots))
	for _, id := range r.bots {
		out = append(out, r.players[id])
	}
	return out
}

// Humans lists every non-bot player.
func (r *Registry) Humans() []*Player {
	var out []*Player
	for _, p := range r.Players() {
		if !p.IsBot {
			out = append(out, p)
		}
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.players)
}

func (r *Registry) BotCount() int {
	return r.botCount
}

// TeamSizes returns the roster lengths of Team 1 and Team 2.
func (r *Registry) TeamSizes() (int, int) {
	return len(r.team1.roster), len(r.team2.roster)
}

// MovePaddle shifts a paddle by delta and clamps it to the board.
func (r *Registry) MovePaddle(id string, delta float64) (float64, bool) {
	p, ok := r.players[id]
	if !ok {
		return 0, false
	}
	p.PaddleY = Clamp(p.PaddleY+delta, PaddleMin, PaddleMax)
	return p.PaddleY, true
}

// SetPaddle places a paddle at position, clamped to the board.
func (r *Registry) SetPaddle(id string, position float64) (float64, bool) {
	p, ok := r.players[id]
	if !ok {
		return 0, false
	}
	p.PaddleY = Clamp(position, PaddleMin, PaddleMax)
	return p.PaddleY, true
}

// Clear unseats everyone and zeroes the bot counter. Scores are kept.
func (r *Registry) Clear() {
	r.players = make(map[string]*Player)
	r.team1.roster = nil
	r.team2.roster = nil
	r.bots = nil
	r.botCount = 0
}

func (r *Registry) ResetScores() {
	r.team1.Score = 0
	r.team2.Score = 0
}
