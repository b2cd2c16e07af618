package engine

import "github.com/pthm-cable/aura/config"

// LevelAdapter normalizes the caller's raw audio level into the modulation
// input the integrator uses. Raw values may be in any range; they are
// clamped to [0, 1], scaled down for reduced sensitivity, and smoothed with
// separate attack/release factors so noisy input does not jitter the shell.
type LevelAdapter struct {
	sensitivity float32
	attack      float32
	release     float32
	raw         float32 // clamped input
	level       float32 // smoothed, scaled output
}

// NewLevelAdapter builds an adapter from the shared audio config. The
// avatar engine and the ambient overlay each hold one built from the same
// config so their reaction to a given level matches.
func NewLevelAdapter(cfg config.AudioConfig) LevelAdapter {
	return LevelAdapter{
		sensitivity: float32(cfg.Sensitivity),
		attack:      float32(cfg.Attack),
		release:     float32(cfg.Release),
	}
}

// Set stores a new raw level. NaN is treated as silence.
func (a *LevelAdapter) Set(raw float32) {
	if raw != raw {
		raw = 0
	}
	a.raw = clamp01(raw)
}

// Raw returns the clamped input before sensitivity scaling.
func (a *LevelAdapter) Raw() float32 {
	return a.raw
}

// Level returns the smoothed modulation value in [0, 1].
func (a *LevelAdapter) Level() float32 {
	return a.level
}

// Step advances the smoothed level one tick toward the scaled target.
func (a *LevelAdapter) Step() {
	target := a.raw * a.sensitivity
	k := a.release
	if target > a.level {
		k = a.attack
	}
	a.level += (target - a.level) * k
}
