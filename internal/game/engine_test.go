package game

import (
	"math"
	"math/rand/v2"
	"testing"
)

func newTestWorld(physics Physics) *World {
	return NewWorld(physics, rand.New(rand.NewPCG(1, 2)))
}

func TestResetBallIsCenteredDiagonal(t *testing.T) {
	w := newTestWorld(Physics{})
	for i := 0; i < 50; i++ {
		w.ResetBall()
		if !w.Ball.Position.IsEqualTo(NewVec2(50, 50)) {
			t.Fatalf("ball not centered: %+v", w.Ball.Position)
		}
		if math.Abs(w.Ball.Velocity.X) != BallSpeed || math.Abs(w.Ball.Velocity.Y) != BallSpeed {
			t.Fatalf("velocity not diagonal: %+v", w.Ball.Velocity)
		}
	}
}

func TestWallReflectionInvertsPerpendicularComponent(t *testing.T) {
	w := newTestWorld(Physics{})
	w.Ball = Ball{Position: NewVec2(50, 0.5), Velocity: NewVec2(1, -1)}

	if scorer := w.Step(nil); scorer != TeamNone {
		t.Fatalf("unexpected score by %s", scorer)
	}
	if w.Ball.Velocity.Y != 1 || w.Ball.Velocity.X != 1 {
		t.Errorf("top wall: velocity = %+v, want {1 1}", w.Ball.Velocity)
	}

	w.Ball = Ball{Position: NewVec2(50, 99.5), Velocity: NewVec2(-1, 1)}
	w.Step(nil)
	if w.Ball.Velocity.Y != -1 || w.Ball.Velocity.X != -1 {
		t.Errorf("bottom wall: velocity = %+v, want {-1 -1}", w.Ball.Velocity)
	}
}

func TestWallReflectionOnlyWhenMovingOutward(t *testing.T) {
	w := newTestWorld(Physics{})
	// Already past the edge but heading back in: leave it alone.
	w.Ball = Ball{Position: NewVec2(50, -3), Velocity: NewVec2(1, 1)}

	w.Step(nil)

	if w.Ball.Velocity.Y != 1 {
		t.Errorf("inbound ball reflected: velocity = %+v", w.Ball.Velocity)
	}
}

func TestPaddleCollisionReturnsBall(t *testing.T) {
	left := &Player{ID: "a", Team: Team1, PaddleY: 50}
	right := &Player{ID: "b", Team: Team2, PaddleY: 30}
	w := newTestWorld(Physics{})

	w.Ball = Ball{Position: NewVec2(2.5, 55), Velocity: NewVec2(-1, 0)}
	if scorer := w.Step([]*Player{left, right}); scorer != TeamNone {
		t.Fatalf("left paddle missed, %s scored", scorer)
	}
	if w.Ball.Velocity.X != 1 {
		t.Errorf("left paddle: vx = %v, want 1", w.Ball.Velocity.X)
	}

	w.Ball = Ball{Position: NewVec2(97.5, 21), Velocity: NewVec2(1, 0)}
	w.Step([]*Player{left, right})
	if w.Ball.Velocity.X != -1 {
		t.Errorf("right paddle: vx = %v, want -1", w.Ball.Velocity.X)
	}
}

func TestPaddleOnlyGuardsItsOwnSide(t *testing.T) {
	// A Team 2 paddle lined up with the ball does nothing on the left edge.
	right := &Player{ID: "b", Team: Team2, PaddleY: 50}
	w := newTestWorld(Physics{})
	w.Ball = Ball{Position: NewVec2(0.5, 50), Velocity: NewVec2(-1, 0)}

	if scorer := w.Step([]*Player{right}); scorer != Team2 {
		t.Errorf("scorer = %q, want %q", scorer, Team2)
	}
}

func TestPaddleMissesOutsideBand(t *testing.T) {
	left := &Player{ID: "a", Team: Team1, PaddleY: 80}
	w := newTestWorld(Physics{})
	w.Ball = Ball{Position: NewVec2(0.5, 50), Velocity: NewVec2(-1, 1)}

	if scorer := w.Step([]*Player{left}); scorer != Team2 {
		t.Fatalf("scorer = %q, want %q", scorer, Team2)
	}
}

func TestScoringResetsBall(t *testing.T) {
	tests := []struct {
		name   string
		ball   Ball
		scorer TeamID
	}{
		{"left goal", Ball{Position: NewVec2(0.5, 40), Velocity: NewVec2(-1, 1)}, Team2},
		{"right goal", Ball{Position: NewVec2(99.5, 40), Velocity: NewVec2(1, -1)}, Team1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(Physics{})
			w.Ball = tt.ball

			if got := w.Step(nil); got != tt.scorer {
				t.Fatalf("scorer = %q, want %q", got, tt.scorer)
			}
			if !w.Ball.Position.IsEqualTo(NewVec2(50, 50)) {
				t.Errorf("ball not reset: %+v", w.Ball.Position)
			}
			if w.Ball.Velocity.X == 0 || w.Ball.Velocity.Y == 0 {
				t.Errorf("reset velocity not diagonal: %+v", w.Ball.Velocity)
			}
		})
	}
}

func TestWindPushIsClamped(t *testing.T) {
	w := newTestWorld(Physics{WindMagnitude: 0.5, WindFlipChance: 0, MaxWindVelocity: 2})
	w.ResetWind(true)
	w.Wind.Active = true
	w.Wind.Direction = 1
	w.Ball = Ball{Position: NewVec2(20, 50), Velocity: NewVec2(1, 0)}

	want := []float64{1.5, 2, 2, 2}
	for i, vx := range want {
		w.Step(nil)
		if w.Ball.Velocity.X != vx {
			t.Errorf("tick %d: vx = %v, want %v", i, w.Ball.Velocity.X, vx)
		}
	}
}

func TestWindUncappedAccumulates(t *testing.T) {
	w := newTestWorld(Physics{WindMagnitude: 0.5, WindFlipChance: 0, MaxWindVelocity: 0})
	w.ResetWind(true)
	w.Wind.Active = true
	w.Wind.Direction = -1
	w.Ball = Ball{Position: NewVec2(80, 50), Velocity: NewVec2(-1, 0)}

	for i := 0; i < 4; i++ {
		w.Step(nil)
	}
	if w.Ball.Velocity.X != -3 {
		t.Errorf("vx = %v, want -3", w.Ball.Velocity.X)
	}
}

func TestWindDisabledLeavesVelocity(t *testing.T) {
	w := newTestWorld(Physics{WindMagnitude: 0.5, WindFlipChance: 1})
	w.ResetWind(false)
	w.Ball = Ball{Position: NewVec2(50, 50), Velocity: NewVec2(1, 1)}

	for i := 0; i < 5; i++ {
		w.Step(nil)
	}
	if w.Wind.Active {
		t.Error("disabled wind became active")
	}
	if w.Ball.Velocity.X != 1 {
		t.Errorf("vx = %v, want 1", w.Ball.Velocity.X)
	}
}

func TestWindFlipsWithCertainChance(t *testing.T) {
	w := newTestWorld(Physics{WindMagnitude: 0, WindFlipChance: 1})
	w.ResetWind(true)
	w.Ball = Ball{Position: NewVec2(50, 50), Velocity: NewVec2(0, 0)}

	for i := 0; i < 6; i++ {
		before := w.Wind.Active
		w.Step(nil)
		if w.Wind.Active == before {
			t.Fatalf("tick %d: wind did not flip", i)
		}
		if w.Wind.Direction != 1 && w.Wind.Direction != -1 {
			t.Fatalf("direction = %d", w.Wind.Direction)
		}
	}
}

func TestSetWindEnabledFalseCalmsWind(t *testing.T) {
	w := newTestWorld(Physics{})
	w.ResetWind(true)
	w.Wind.Active = true

	w.SetWindEnabled(false)

	if w.Wind.Enabled || w.Wind.Active {
		t.Errorf("wind = %+v, want disabled and calm", w.Wind)
	}
}
