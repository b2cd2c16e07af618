// Package noise provides the deterministic scalar/vector field that drives
// organic particle motion. The same seed always yields the same field.
package noise

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Field samples smooth pseudo-random values over position and time.
type Field struct {
	simplex opensimplex.Noise
	seed    int64
}

// NewField creates a field for the given seed.
func NewField(seed int64) *Field {
	return &Field{
		simplex: opensimplex.New(seed),
		seed:    seed,
	}
}

// Seed returns the seed the field was built with.
func (f *Field) Seed() int64 {
	return f.seed
}

// Scalar returns a noise value in [-1, 1] at (x, y) and time t.
func (f *Field) Scalar(x, y, t float64) float32 {
	return float32(f.simplex.Eval3(x, y, t))
}

// Flow returns a 2D flow vector at (x, y) and time t. One channel picks a
// heading, a decorrelated channel picks a magnitude in [0, 1], so the field
// is divergence-poor and visually stream-like.
func (f *Field) Flow(x, y, t float64) (float32, float32) {
	angle := f.simplex.Eval3(x, y, t) * math.Pi * 2
	// Offset the second sample so heading and magnitude decorrelate
	mag := (f.simplex.Eval3(x+100, y+100, t) + 1) * 0.5
	return float32(math.Cos(angle) * mag), float32(math.Sin(angle) * mag)
}

// Wander returns a small 2D displacement for per-particle organic drift.
// offset staggers particles so they do not move in lockstep.
func (f *Field) Wander(offset, t float64) (float32, float32) {
	dx := f.simplex.Eval3(offset, 0, t)
	dy := f.simplex.Eval3(0, offset, t+37.2)
	return float32(dx), float32(dy)
}
