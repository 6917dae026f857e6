package game

import (
	"log"
	"sync"
	"time"
)

// botTask is the control goroutine of one bot.
type botTask struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// halt signals the task and waits for it to exit. Safe to call repeatedly.
func (t *botTask) halt() {
	t.stopOnce.Do(func() { close(t.stop) })
	<-t.done
}

// steerBot moves a bot paddle one step toward the ball when the ball is on
// the bot's half. It reports whether the paddle moved.
func steerBot(p *Player, ball Vec2) bool {
	onSide := (p.Team == Team1 && ball.X < CenterLine) || (p.Team == Team2 && ball.X > CenterLine)
	if !onSide {
		return false
	}
	prev := p.PaddleY
	switch {
	case ball.Y > p.PaddleY+BotDeadZone:
		p.PaddleY = Clamp(p.PaddleY+BotStep, PaddleMin, PaddleMax)
	case ball.Y < p.PaddleY-BotDeadZone:
		p.PaddleY = Clamp(p.PaddleY-BotStep, PaddleMin, PaddleMax)
	}
	return p.PaddleY != prev
}

// launchBot starts p's control task. Caller holds r.mu.
func (r *Room) launchBot(p *Player) {
	if p.bot != nil {
		return
	}
	t := &botTask{stop: make(chan struct{}), done: make(chan struct{})}
	p.bot = t
	go r.driveBot(p, t)
}

func (r *Room) driveBot(p *Player, t *botTask) {
	defer close(t.done)

	ticker := time.NewTicker(rateInterval(r.cfg.BotRate))
	defer ticker.Stop()

	log.Printf("[BOT] %s (%s) control started", p.Name, p.Team)
	for {
		select {
		case <-t.stop:
			log.Printf("[BOT] %s control stopped", p.Name)
			return
		case <-ticker.C:
		}

		r.mu.Lock()
		steerBot(p, r.world.Ball.Position)
		r.mu.Unlock()
	}
}

// detachBots takes the running tasks off the given bots so they can be
// halted without holding r.mu. Caller holds r.mu.
func detachBots(bots []*Player) []*botTask {
	var tasks []*botTask
	for _, p := range bots {
		if p == nil || p.bot == nil {
			continue
		}
		tasks = append(tasks, p.bot)
		p.bot = nil
	}
	return tasks
}

func haltAll(tasks []*botTask) {
	for _, t := range tasks {
		t.halt()
	}
}
