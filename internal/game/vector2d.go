package game

import "math"

// Vec2 is a 2D vector with fixed-precision arithmetic so snapshots stay
// compact and identical across ticks.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// fix rounds to 4 decimal places.
func fix(n float64) float64 {
	if math.IsNaN(n) {
		return 0
	}
	return math.Round(n*10000) / 10000
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: fix(x), Y: fix(y)}
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: fix(v.X + o.X), Y: fix(v.Y + o.Y)}
}

func (v Vec2) Magnitude() float64 {
	return fix(math.Sqrt(v.X*v.X + v.Y*v.Y))
}

// ReflectX mirrors the vector across the vertical axis (paddle bounce).
func (v Vec2) ReflectX() Vec2 {
	return Vec2{X: -v.X, Y: v.Y}
}

// ReflectY mirrors the vector across the horizontal axis (wall bounce).
func (v Vec2) ReflectY() Vec2 {
	return Vec2{X: v.X, Y: -v.Y}
}

// ClampX bounds |X| to limit. A non-positive limit leaves the vector as is.
func (v Vec2) ClampX(limit float64) Vec2 {
	if limit <= 0 {
		return v
	}
	return Vec2{X: Clamp(v.X, -limit, limit), Y: v.Y}
}

func (v Vec2) IsEqualTo(o Vec2) bool {
	return v.X == o.X && v.Y == o.Y
}

// Clamp bounds n to [lo, hi].
func Clamp(n, lo, hi float64) float64 {
	if math.IsNaN(n) {
		return lo
	}
	return math.Max(lo, math.Min(hi, n))
}
