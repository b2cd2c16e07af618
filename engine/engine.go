// Package engine implements the phase-driven particle simulation behind the
// avatar's dissolve / think / reform / speak transformation.
//
// The engine is a plain struct owned by one goroutine: the host calls
// Tick(dt) once per frame, SetPhase / SetAudioLevel between frames, and
// Dispose on teardown. It never self-advances between phases;
// when a bounded phase completes it fires the completion callback and keeps
// rendering that phase's steady state until the controller supplies the
// next phase.
package engine

import (
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/aura/config"
	"github.com/pthm-cable/aura/noise"
	"github.com/pthm-cable/aura/sampler"
)

// Engine owns one particle set and its phase state. Particles are allocated
// once at construction; every phase mutates attributes in place and the
// count stays constant for the engine's lifetime.
type Engine struct {
	cfg   *config.Config
	field *noise.Field
	rng   *rand.Rand

	particles []Particle
	arcs      []Arc

	phase        Phase
	prevPhase    Phase
	phaseElapsed float32 // seconds in the current phase
	time         float32 // total engine time, drives waves and wander

	audio LevelAdapter

	onComplete    func(Phase)
	completeFired bool

	size, half float32

	speakRot float32 // shell rotation accumulator
	blending bool    // vortex -> speaking blend window active
	arcTimer float32

	reduced     bool
	reducedDone bool
	disposed    bool
}

// New builds an engine from a sampled particle field. A nil or empty field
// yields an engine whose phases are all no-ops until a valid image is
// supplied via Resample.
func New(cfg *config.Config, field *sampler.Field, seed int64) *Engine {
	e := &Engine{
		cfg:     cfg,
		field:   noise.NewField(seed),
		rng:     rand.New(rand.NewSource(seed)),
		audio:   NewLevelAdapter(cfg.Audio),
		size:    cfg.Derived.RenderSize32,
		half:    cfg.Derived.HalfSize32,
		phase:   PhaseIdle,
		reduced: cfg.Avatar.ReducedMotion,
	}
	e.Resample(field)
	return e
}

// Resample replaces the particle set from a newly sampled image. Called
// once at construction and again whenever the image source changes.
func (e *Engine) Resample(field *sampler.Field) {
	if field == nil || len(field.Points) == 0 {
		e.particles = nil
		return
	}
	if e.reduced {
		field = field.Decimate(e.cfg.Avatar.ReducedParticles)
	}

	sizeMin := float32(e.cfg.Avatar.SizeMin)
	sizeBand := float32(e.cfg.Avatar.SizeMax) - sizeMin
	jitter := float32(e.cfg.Avatar.Vortex.AngularJitter)

	e.particles = make([]Particle, len(field.Points))
	for i, pt := range field.Points {
		dx := pt.X - e.half
		dy := pt.Y - e.half
		e.particles[i] = Particle{
			OriginX:     pt.X,
			OriginY:     pt.Y,
			X:           pt.X,
			Y:           pt.Y,
			R:           pt.R,
			G:           pt.G,
			B:           pt.B,
			Size:        sizeMin + e.rng.Float32()*sizeBand,
			Opacity:     1,
			Attached:    true,
			NoiseOffset: e.rng.Float32() * 1000,
			DistNorm:    clamp01(sqrt32(dx*dx+dy*dy) / e.half),
			spin:        1 + (e.rng.Float32()*2-1)*jitter,
		}
	}

	// A new image restarts the cycle from rest
	e.phase = PhaseIdle
	e.phaseElapsed = 0
	e.completeFired = false
	e.blending = false
	e.reducedDone = false
	e.arcs = e.arcs[:0]
}

// OnPhaseComplete registers the callback invoked with the phase that just
// finished. Only bounded phases (dissolving, reforming) complete.
func (e *Engine) OnPhaseComplete(fn func(Phase)) {
	e.onComplete = fn
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Count returns the particle count, constant across all phases.
func (e *Engine) Count() int {
	return len(e.particles)
}

// Particles returns the live particle slice for rendering and inspection.
// Callers must not retain it across Resample or Dispose.
func (e *Engine) Particles() []Particle {
	return e.particles
}

// Arcs returns the active decorative energy arcs.
func (e *Engine) Arcs() []Arc {
	return e.arcs
}

// SetAudioLevel stores the caller's raw audio level. Any numeric range is
// accepted; the value is clamped before use.
func (e *Engine) SetAudioLevel(raw float32) {
	e.audio.Set(raw)
}

// AudioLevel returns the clamped raw level, shared with the ambient overlay
// so both engines agree on how loud the moment is.
func (e *Engine) AudioLevel() float32 {
	return e.audio.Raw()
}

// SetPhase moves the engine to the requested phase. Re-assigning the
// current phase is a no-op. Transitions outside the intended cycle are
// accepted defensively: velocities are reset on entry so no phase ever
// inherits stale motion.
func (e *Engine) SetPhase(p Phase) {
	if e.disposed || p == e.phase {
		return
	}
	if !ValidTransition(e.phase, p) {
		slog.Debug("unexpected phase transition", "from", e.phase.String(), "to", p.String())
	}

	e.prevPhase = e.phase
	e.phase = p
	e.phaseElapsed = 0
	e.completeFired = false
	e.blending = false
	e.reducedDone = false
	if p != PhaseVortex {
		e.arcs = e.arcs[:0]
	}

	for i := range e.particles {
		e.particles[i].VX = 0
		e.particles[i].VY = 0
		e.particles[i].Depth = 0
	}

	switch p {
	case PhaseIdle:
		for i := range e.particles {
			e.particles[i].Opacity = 0
		}
	case PhaseDissolving:
		e.enterDissolve()
	case PhaseVortex:
		e.enterVortex()
	case PhaseReforming:
		e.enterReform()
	case PhaseSpeaking:
		e.enterSpeaking()
	}
}

// Tick advances the simulation by dt seconds. Idle engines and engines
// with no particles do nothing. Under reduced motion only the first tick
// after a phase change integrates; the frame then holds.
func (e *Engine) Tick(dt float32) {
	if e.disposed || len(e.particles) == 0 {
		return
	}
	if !(dt > 0) { // rejects zero, negative and NaN
		return
	}
	if e.reduced && e.reducedDone {
		return
	}

	e.time += dt
	e.phaseElapsed += dt
	e.audio.Step()

	switch e.phase {
	case PhaseIdle:
		// nothing to integrate; opacity was zeroed on entry

	case PhaseDissolving:
		p := progress(e.phaseElapsed, float32(e.cfg.Avatar.DissolveSec))
		e.stepDissolve(dt, p)
		if p >= 1 {
			e.finishDissolve()
		}

	case PhaseVortex:
		e.stepVortex(dt)
		e.stepArcs(dt)

	case PhaseReforming:
		p := progress(e.phaseElapsed, float32(e.cfg.Avatar.ReformSec))
		e.stepReform(dt, p)
		if p >= 1 {
			e.finishReform()
		}

	case PhaseSpeaking:
		e.stepSpeaking(dt)
	}

	if e.reduced {
		e.reducedDone = true
	}
}

// fireComplete invokes the completion callback exactly once per phase entry.
func (e *Engine) fireComplete(p Phase) {
	if e.completeFired {
		return
	}
	e.completeFired = true
	if e.onComplete != nil {
		e.onComplete(p)
	}
}

// Dispose releases the particle set. Idempotent; the engine ignores all
// calls afterwards.
func (e *Engine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.particles = nil
	e.arcs = nil
	e.onComplete = nil
}
