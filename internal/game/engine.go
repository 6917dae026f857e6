package game

import "math/rand/v2"

// Ball is the single ball on the board.
type Ball struct {
	Position Vec2 `json:"position"`
	Velocity Vec2 `json:"velocity"`
}

// Wind perturbs the ball's horizontal velocity while active.
type Wind struct {
	Enabled   bool    `json:"enabled"`
	Active    bool    `json:"active"`
	Direction int     `json:"direction"`
	Magnitude float64 `json:"magnitude"`
}

// Physics holds the tunables of a World.
type Physics struct {
	WindMagnitude   float64
	WindFlipChance  float64
	MaxWindVelocity float64 // cap on |vx| while wind pushes; 0 disables the cap
}

// World is the simulated board: ball, wind and the random source used for
// resets and gusts.
type World struct {
	Ball    Ball
	Wind    Wind
	physics Physics
	rng     *rand.Rand
}

// NewWorld creates a world with the ball at center. A nil rng gets a
// process-seeded generator.
func NewWorld(physics Physics, rng *rand.Rand) *World {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	w := &World{physics: physics, rng: rng}
	w.ResetWind(false)
	w.ResetBall()
	return w
}

func (w *World) randomSign() float64 {
	if w.rng.IntN(2) == 0 {
		return -1
	}
	return 1
}

// ResetBall puts the ball at center with a fresh diagonal velocity.
func (w *World) ResetBall() {
	w.Ball.Position = NewVec2(CenterLine, CenterLine)
	w.Ball.Velocity = NewVec2(BallSpeed*w.randomSign(), BallSpeed*w.randomSign())
}

// ResetWind calms the wind and sets whether it may blow at all.
func (w *World) ResetWind(enabled bool) {
	w.Wind = Wind{
		Enabled:   enabled,
		Direction: 1,
		Magnitude: w.physics.WindMagnitude,
	}
}

// SetWindEnabled toggles the wind feature. Disabling also stops any gust.
func (w *World) SetWindEnabled(enabled bool) {
	w.Wind.Enabled = enabled
	if !enabled {
		w.Wind.Active = false
	}
}

// Step advances the world by one tick against the given paddles and
// returns the team that scored, or TeamNone.
func (w *World) Step(players []*Player) TeamID {
	b := &w.Ball
	b.Position = b.Position.Plus(b.Velocity)

	w.blow()
	w.bounceWalls()
	for _, p := range players {
		w.bouncePaddle(p)
	}

	switch {
	case b.Position.X <= 0:
		w.ResetBall()
		return Team2
	case b.Position.X >= BoardSize:
		w.ResetBall()
		return Team1
	}
	return TeamNone
}

func (w *World) blow() {
	wind := &w.Wind
	if !wind.Enabled {
		return
	}
	if w.rng.Float64() < w.physics.WindFlipChance {
		wind.Active = !wind.Active
		wind.Direction = int(w.randomSign())
	}
	if !wind.Active {
		return
	}
	push := NewVec2(wind.Magnitude*float64(wind.Direction), 0)
	w.Ball.Velocity = w.Ball.Velocity.Plus(push).ClampX(w.physics.MaxWindVelocity)
}

// bounceWalls reflects the ball off the top and bottom edges. Only a ball
// moving outward is reflected, so a ball sitting past the edge for more
// than one tick does not oscillate.
func (w *World) bounceWalls() {
	b := &w.Ball
	if (b.Position.Y <= 0 && b.Velocity.Y < 0) || (b.Position.Y >= BoardSize && b.Velocity.Y > 0) {
		b.Velocity = b.Velocity.ReflectY()
	}
}

func (w *World) bouncePaddle(p *Player) {
	b := &w.Ball
	top := p.PaddleY - PaddleHalfHeight
	bottom := p.PaddleY + PaddleHalfHeight
	if b.Position.Y < top || b.Position.Y > bottom {
		return
	}
	switch p.Team {
	case Team1:
		if b.Position.X <= LeftContactX && b.Velocity.X < 0 {
			b.Velocity = b.Velocity.ReflectX()
		}
	case Team2:
		if b.Position.X >= RightContactX && b.Velocity.X > 0 {
			b.Velocity = b.Velocity.ReflectX()
		}
	}
}
