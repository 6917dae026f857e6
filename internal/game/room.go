package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/playpong/backend/internal/config"
)

// ErrUnknownCommand is returned by AdminCommand for text that is not a
// recognized room command.
var ErrUnknownCommand = errors.New("unknown command")

// Command is an admin command recognized in chat.
type Command int

const (
	CmdNone Command = iota
	CmdStart
	CmdStop
	CmdAddBot
	CmdRemoveBot
	CmdRemoveAllBots
)

// ParseCommand recognizes "!start", "!stop", "!addBot", "!removeBot" and
// "!removeBot all".
func ParseCommand(text string) Command {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "!start":
		return CmdStart
	case trimmed == "!stop":
		return CmdStop
	case strings.HasPrefix(trimmed, "!addBot"):
		return CmdAddBot
	case trimmed == "!removeBot all":
		return CmdRemoveAllBots
	case strings.HasPrefix(trimmed, "!removeBot"):
		return CmdRemoveBot
	}
	return CmdNone
}

// Room is the single game room of the process.
//
// Two locks guard it. cmdMu serializes lifecycle commands (connect,
// disconnect, start, stop, bots, restart) so a stop has fully joined the
// tick and bot goroutines before the next command runs. mu guards the
// registry, world and status and is taken by every tick and bot cycle;
// it is never held while waiting on a goroutine.
type Room struct {
	cmdMu sync.Mutex
	mu    sync.Mutex

	cfg      *config.Config
	out      Broadcaster
	status   Status
	registry *Registry
	world    *World

	stop  chan struct{}
	ticks sync.WaitGroup
}

// NewRoom creates an idle room. A nil broadcaster discards all messages.
func NewRoom(cfg *config.Config, out Broadcaster) *Room {
	return newRoom(cfg, out, nil)
}

func newRoom(cfg *config.Config, out Broadcaster, rng *rand.Rand) *Room {
	if out == nil {
		out = nopBroadcaster{}
	}
	r := &Room{
		cfg:      cfg,
		out:      out,
		status:   StatusIdle,
		registry: NewRegistry(),
		world: NewWorld(Physics{
			WindMagnitude:   cfg.WindMagnitude,
			WindFlipChance:  cfg.WindFlipChance,
			MaxWindVelocity: cfg.MaxWindVelocity,
		}, rng),
	}
	r.world.ResetWind(cfg.WindEnabled)
	return r
}

func rateInterval(hz int) time.Duration {
	if hz <= 0 {
		hz = 60
	}
	return time.Second / time.Duration(hz)
}

// ---------------------------------------------------------------------------
// Sessions

// Connect seats a new session on the smaller team, tells it its id and team,
// and broadcasts the new roster.
func (r *Room) Connect(sessionID string) *Player {
	r.cmdMu.Lock()
	defer r.cmdMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.registry.AddPlayer(sessionID)
	log.Printf("[ROOM] Player connected: %s assigned to %s", p.ID, p.Team)

	r.out.SendTo(p.ID, PlayerIDMessage{Type: TypePlayerID, PlayerID: p.ID, Team: p.Team})
	r.broadcastStateLocked()
	return p
}

// SetName sets a session's display name. Another session already using the
// name is evicted first. "Bot N" names belong to bots and are ignored.
func (r *Room) SetName(sessionID, name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}

	if isBotName(name) {
		log.Printf("[ROOM] Player %s asked for reserved bot name %q; ignoring", sessionID, name)
		return
	}

	r.cmdMu.Lock()
	defer r.cmdMu.Unlock()

	r.mu.Lock()
	p, ok := r.registry.Get(sessionID)
	if !ok {
		r.mu.Unlock()
		return
	}
	prior := r.registry.FindByName(name)
	r.mu.Unlock()

	if prior != nil && prior.ID != sessionID {
		log.Printf("[ROOM] Name %q taken by %s; evicting it for %s", name, prior.ID, sessionID)
		r.leaveLocked(prior.ID, "player replaced")
		r.out.Close(prior.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	p.Name = name
	log.Printf("[ROOM] Player %s set their username to %s", p.ID, name)
	r.broadcastStateLocked()
}

// Disconnect unseats a session. A disconnect during play voids the match:
// the simulation is stopped and joined before Disconnect returns.
func (r *Room) Disconnect(sessionID string) {
	r.cmdMu.Lock()
	defer r.cmdMu.Unlock()
	r.leaveLocked(sessionID, "player disconnected")
}

// leaveLocked removes a session and stops play. Caller holds cmdMu.
func (r *Room) leaveLocked(sessionID, reason string) {
	r.mu.Lock()
	p := r.registry.Remove(sessionID)
	if p == nil {
		r.mu.Unlock()
		return
	}
	tasks := detachBots([]*Player{p})
	playing := r.status == StatusPlaying
	r.mu.Unlock()

	haltAll(tasks)
	log.Printf("[ROOM] Player disconnected: %s from %s", p.ID, p.Team)

	if playing {
		r.stopLocked(reason)
		return
	}
	r.mu.Lock()
	r.broadcastStateLocked()
	r.mu.Unlock()
}

// MovePaddle shifts the session's paddle by delta. Picked up by the next tick.
func (r *Room) MovePaddle(sessionID string, delta float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry.MovePaddle(sessionID, delta)
}

// SetPaddle places the session's paddle at an absolute offset.
func (r *Room) SetPaddle(sessionID string, position float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registry.SetPaddle(sessionID, position)
}

// Command handles chat text: admin commands from the admin identity, chat
// relay for everything else.
func (r *Room) Command(sessionID, text string) {
	r.mu.Lock()
	p, ok := r.registry.Get(sessionID)
	if !ok {
		r.mu.Unlock()
		return
	}
	isAdmin := r.cfg.AdminName != "" && p.Name == r.cfg.AdminName
	team, name := p.Team, p.DisplayName()
	r.mu.Unlock()

	log.Printf("[ROOM] Received message from %s (%s): %s", sessionID, team, text)

	if cmd := ParseCommand(text); isAdmin && cmd != CmdNone {
		r.exec(cmd)
		return
	}

	r.out.Broadcast(ChatMessage{
		Type:    TypeChat,
		Message: fmt.Sprintf("%s (%s): %s", team, name, text),
	})
}

// AdminCommand runs a room command from a trusted operator channel.
func (r *Room) AdminCommand(text string) error {
	cmd := ParseCommand(text)
	if cmd == CmdNone {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, text)
	}
	r.exec(cmd)
	return nil
}

func (r *Room) exec(cmd Command) {
	switch cmd {
	case CmdStart:
		r.Start()
	case CmdStop:
		r.Stop("stopped by admin")
	case CmdAddBot:
		r.AddBot()
	case CmdRemoveBot:
		r.RemoveBot()
	case CmdRemoveAllBots:
		r.RemoveAllBots()
	}
}

// SetWind enables or disables the wind feature.
func (r *Room) SetWind(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.world.SetWindEnabled(enabled)
	log.Printf("[ROOM] Wind enabled=%v", enabled)
	r.broadcastStateLocked()
}

// Restart stops play, removes every bot, resets ball, scores and wind and
// clears every session. Clients receive a reset event and the fresh state,
// then their connections are closed so they join again.
func (r *Room) Restart() {
	r.cmdMu.Lock()
	defer r.cmdMu.Unlock()

	r.haltLocked()

	r.mu.Lock()
	tasks := detachBots(r.registry.Bots())
	r.mu.Unlock()
	haltAll(tasks)

	r.mu.Lock()
	defer r.mu.Unlock()

	var humans []string
	for _, p := range r.registry.Humans() {
		humans = append(humans, p.ID)
	}
	r.registry.Clear()
	r.registry.ResetScores()
	r.world.ResetBall()
	r.world.ResetWind(r.cfg.WindEnabled)
	log.Printf("[ROOM] Room restarted; clearing %d sessions", len(humans))

	r.out.Broadcast(ResetMessage{Type: TypeReset})
	r.broadcastStateLocked()
	for _, id := range humans {
		r.out.Close(id)
	}
}

// ---------------------------------------------------------------------------
// Bots

// AddBot seats a bot on the smaller team and starts its control task.
func (r *Room) AddBot() *Player {
	r.cmdMu.Lock()
	defer r.cmdMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.registry.AddBot(uuid.NewString())
	r.launchBot(p)
	log.Printf("[ROOM] Bot added to %s with name %s", p.Team, p.Name)
	r.broadcastStateLocked()
	return p
}

// RemoveBot removes the most recently added bot and joins its task.
func (r *Room) RemoveBot() *Player {
	r.cmdMu.Lock()
	defer r.cmdMu.Unlock()

	r.mu.Lock()
	p := r.registry.PopBot()
	if p == nil {
		r.mu.Unlock()
		return nil
	}
	tasks := detachBots([]*Player{p})
	r.mu.Unlock()

	haltAll(tasks)
	log.Printf("[ROOM] Bot removed from %s with name %s", p.Team, p.Name)

	r.mu.Lock()
	r.broadcastStateLocked()
	r.mu.Unlock()
	return p
}

// RemoveAllBots removes every bot, joins their tasks and resets the counter.
func (r *Room) RemoveAllBots() int {
	r.cmdMu.Lock()
	defer r.cmdMu.Unlock()

	r.mu.Lock()
	removed := r.registry.RemoveAllBots()
	tasks := detachBots(removed)
	r.mu.Unlock()

	haltAll(tasks)
	log.Printf("[ROOM] Removed %d bots", len(removed))

	r.mu.Lock()
	r.broadcastStateLocked()
	r.mu.Unlock()
	return len(removed)
}

// ---------------------------------------------------------------------------
// Simulation lifecycle

// Start begins play. It is a no-op while already playing.
func (r *Room) Start() bool {
	r.cmdMu.Lock()
	defer r.cmdMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status == StatusPlaying {
		return false
	}
	r.status = StatusPlaying
	r.stop = make(chan struct{})
	r.ticks.Add(1)
	go r.run(r.stop)

	for _, b := range r.registry.Bots() {
		r.launchBot(b)
	}
	log.Printf("[ROOM] Game started with %d players", r.registry.Len())
	r.broadcastStateLocked()
	return true
}

// Stop ends play and blocks until the tick task and every bot task have
// exited. It is a no-op while idle.
func (r *Room) Stop(reason string) bool {
	r.cmdMu.Lock()
	defer r.cmdMu.Unlock()
	return r.stopLocked(reason)
}

// Shutdown stops play and every bot task for process exit.
func (r *Room) Shutdown() {
	r.cmdMu.Lock()
	defer r.cmdMu.Unlock()

	r.stopLocked("server shutting down")
	r.mu.Lock()
	tasks := detachBots(r.registry.Bots())
	r.mu.Unlock()
	haltAll(tasks)
}

// stopLocked halts play and announces it. Caller holds cmdMu.
func (r *Room) stopLocked(reason string) bool {
	if !r.haltLocked() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if reason != "" {
		r.out.Broadcast(StoppedMessage{Type: TypeGameStopped, Reason: reason})
	}
	r.broadcastStateLocked()
	log.Printf("[ROOM] Game stopped: %s", reason)
	return true
}

// haltLocked signals the tick task, joins it and every bot task, then marks
// the room idle. Caller holds cmdMu and not mu.
func (r *Room) haltLocked() bool {
	r.mu.Lock()
	if r.status != StatusPlaying {
		r.mu.Unlock()
		return false
	}
	close(r.stop)
	tasks := detachBots(r.registry.Bots())
	r.mu.Unlock()

	r.ticks.Wait()
	haltAll(tasks)

	r.mu.Lock()
	r.status = StatusIdle
	r.mu.Unlock()
	return true
}

// run drives the simulation until stop is closed, pacing ticks to the
// configured rate.
func (r *Room) run(stop chan struct{}) {
	defer r.ticks.Done()

	interval := rateInterval(r.cfg.TickRate)
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.C:
		}

		started := time.Now()
		if err := r.tick(); err != nil {
			log.Printf("[ROOM] Simulation failure: %v", err)
			go r.abort(stop, fmt.Sprintf("simulation failure: %v", err))
			return
		}
		timer.Reset(max(interval-time.Since(started), 0))
	}
}

// abort stops the match that owned stop, unless it already ended.
func (r *Room) abort(stop chan struct{}, reason string) {
	r.cmdMu.Lock()
	defer r.cmdMu.Unlock()

	r.mu.Lock()
	current := r.status == StatusPlaying && r.stop == stop
	r.mu.Unlock()
	if current {
		r.stopLocked(reason)
	}
}

// tick advances the world one step and broadcasts the result.
func (r *Room) tick() (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("tick panic: %v", p)
		}
	}()

	r.mu.Lock()
	defer r.mu.Unlock()

	if scorer := r.world.Step(r.registry.Players()); scorer != TeamNone {
		team := r.registry.Team(scorer)
		team.Score++
		log.Printf("[ROOM] %s scored (%d - %d)", scorer, r.registry.team1.Score, r.registry.team2.Score)
		r.broadcastStateLocked()
	}
	r.out.Broadcast(r.tickMessageLocked())
	return nil
}

// ---------------------------------------------------------------------------
// Snapshots

// Status reports whether the room is playing.
func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registry.Len()
}

// Snapshot returns the current full state.
func (r *Room) Snapshot() StateMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateMessageLocked()
}

func (r *Room) broadcastStateLocked() {
	r.out.Broadcast(r.stateMessageLocked())
}

func (r *Room) stateMessageLocked() StateMessage {
	msg := StateMessage{
		Type:  TypeGameState,
		State: r.status,
		Teams: map[string][]RosterEntry{
			Team1.Key(): {},
			Team2.Key(): {},
		},
		Score: map[string]int{
			Team1.Key(): r.registry.team1.Score,
			Team2.Key(): r.registry.team2.Score,
		},
		Players: make(map[string]PlayerView, r.registry.Len()),
		Wind:    r.world.Wind,
	}
	for _, p := range r.registry.Players() {
		key := p.Team.Key()
		msg.Teams[key] = append(msg.Teams[key], RosterEntry{ID: p.ID, Name: p.Name})
		msg.Players[p.ID] = PlayerView{Team: p.Team, PaddleY: p.PaddleY, IsBot: p.IsBot, Name: p.Name}
	}
	return msg
}

func (r *Room) tickMessageLocked() TickMessage {
	msg := TickMessage{
		Type:    TypeGameTick,
		Ball:    r.world.Ball.Position,
		Paddles: make(map[string]PlayerView, r.registry.Len()),
		Wind:    r.world.Wind.Active,
	}
	for _, p := range r.registry.Players() {
		msg.Paddles[p.ID] = PlayerView{Team: p.Team, PaddleY: p.PaddleY, IsBot: p.IsBot}
	}
	return msg
}
