// Package ambient implements the continuous fluid-particle overlay that
// drifts behind the avatar. Particles live in depth layers, follow the
// noise flow field, are attracted toward the cursor inside a bounded
// radius, and wrap toroidally at the canvas edges.
package ambient

import (
	"math/rand"

	"github.com/pthm-cable/aura/config"
	"github.com/pthm-cable/aura/engine"
	"github.com/pthm-cable/aura/noise"
)

// Particle is one overlay particle. A particle belongs to exactly one
// layer for its lifetime; the layer fixes its size, base opacity, speed
// multiplier and gradient color at construction.
type Particle struct {
	X, Y    float32
	VX, VY  float32 // px/sec
	Size    float32
	Opacity float32 // after edge fade and audio modulation
	R, G, B uint8
	Layer   int // index into config layers

	baseOpacity float32
	speed       float32 // layer speed multiplier
}

// Overlay owns the layered ambient particle set for one canvas.
type Overlay struct {
	cfg   *config.Config
	field *noise.Field
	rng   *rand.Rand

	particles []Particle
	w, h      float32
	time      float32

	cursorX, cursorY float32
	cursorOK         bool
	audio            engine.LevelAdapter
	stateMod         float32 // external flow-speed modifier

	disposed bool
}

// New builds an overlay covering a w x h canvas. Particle count is the sum
// of the configured layer counts and stays constant for the overlay's
// lifetime.
func New(cfg *config.Config, w, h float32, seed int64) *Overlay {
	o := &Overlay{
		cfg:      cfg,
		field:    noise.NewField(seed),
		rng:      rand.New(rand.NewSource(seed)),
		w:        w,
		h:        h,
		audio:    engine.NewLevelAdapter(cfg.Audio),
		stateMod: 1,
	}

	o.particles = make([]Particle, 0, cfg.Derived.AmbientCount)
	for li, layer := range cfg.Ambient.Layers {
		for i := 0; i < layer.Count; i++ {
			t := o.rng.Float32()
			o.particles = append(o.particles, Particle{
				X:           o.rng.Float32() * w,
				Y:           o.rng.Float32() * h,
				Size:        float32(layer.SizeMin) + o.rng.Float32()*float32(layer.SizeMax-layer.SizeMin),
				R:           lerpColor(layer.ColorA[0], layer.ColorB[0], t),
				G:           lerpColor(layer.ColorA[1], layer.ColorB[1], t),
				B:           lerpColor(layer.ColorA[2], layer.ColorB[2], t),
				Layer:       li,
				baseOpacity: float32(layer.OpacityMin) + o.rng.Float32()*float32(layer.OpacityMax-layer.OpacityMin),
				speed:       float32(layer.Speed),
			})
		}
	}
	return o
}

// SetCursor updates the attraction target. ok=false disables attraction.
func (o *Overlay) SetCursor(x, y float32, ok bool) {
	o.cursorX, o.cursorY = x, y
	o.cursorOK = ok
}

// SetAudioLevel stores the caller's raw audio level, clamped internally.
func (o *Overlay) SetAudioLevel(raw float32) {
	o.audio.Set(raw)
}

// SetStateModifier scales flow speed for the host's UI state (e.g. calmer
// while idle, livelier while the avatar speaks). Values are clamped to a
// sane band.
func (o *Overlay) SetStateModifier(m float32) {
	if m != m || m < 0 {
		m = 0
	}
	if m > 4 {
		m = 4
	}
	o.stateMod = m
}

// Count returns the particle count, constant after construction.
func (o *Overlay) Count() int {
	return len(o.particles)
}

// Particles returns the live particle slice for rendering and inspection.
func (o *Overlay) Particles() []Particle {
	return o.particles
}

// Tick advances the overlay by dt seconds.
func (o *Overlay) Tick(dt float32) {
	if o.disposed || len(o.particles) == 0 || !(dt > 0) {
		return
	}
	o.time += dt
	o.audio.Step()

	acfg := &o.cfg.Ambient
	level := o.audio.Level()

	noiseScale := acfg.NoiseScale
	flowT := float64(o.time) * acfg.TimeScale
	flowStrength := float32(acfg.FlowStrength) * o.stateMod * (1 + 0.5*level)
	damping := float32(acfg.Damping)
	maxSpeed := float32(acfg.MaxSpeed)
	cursorR := float32(acfg.CursorRadius)
	cursorK := float32(acfg.CursorStrength)
	margin := float32(acfg.EdgeFadeMargin)

	for i := range o.particles {
		pt := &o.particles[i]

		// Flow field sample, scaled by the layer's speed multiplier
		fx, fy := o.field.Flow(float64(pt.X)*noiseScale, float64(pt.Y)*noiseScale, flowT)
		pt.VX += fx * flowStrength * pt.speed * dt
		pt.VY += fy * flowStrength * pt.speed * dt

		// Cursor attraction inside a bounded radius, falling off with the
		// square of normalized distance
		if o.cursorOK {
			dx := o.cursorX - pt.X
			dy := o.cursorY - pt.Y
			distSq := dx*dx + dy*dy
			if distSq > 0.0001 && distSq < cursorR*cursorR {
				dist := sqrt32(distSq)
				dn := dist / cursorR
				f := cursorK * (1 - dn*dn)
				pt.VX += dx / dist * f * dt
				pt.VY += dy / dist * f * dt
			}
		}

		pt.VX *= damping
		pt.VY *= damping

		// Velocity clamp, skipping the sqrt when clearly under the limit
		limit := maxSpeed * pt.speed
		velSq := pt.VX*pt.VX + pt.VY*pt.VY
		if velSq > limit*limit {
			scale := limit / sqrt32(velSq)
			pt.VX *= scale
			pt.VY *= scale
		}

		pt.X = wrap(pt.X+pt.VX*dt, o.w)
		pt.Y = wrap(pt.Y+pt.VY*dt, o.h)

		// Linear edge fade inside the margin band
		fade := float32(1)
		if margin > 0 {
			d := edgeDistance(pt.X, pt.Y, o.w, o.h)
			if d < margin {
				fade = d / margin
			}
		}
		pt.Opacity = pt.baseOpacity * fade * (0.85 + 0.3*level)
	}
}

// Dispose releases the particle set. Idempotent.
func (o *Overlay) Dispose() {
	if o.disposed {
		return
	}
	o.disposed = true
	o.particles = nil
}
