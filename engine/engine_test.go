package engine

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/pthm-cable/aura/config"
	"github.com/pthm-cable/aura/sampler"
)

const testDT = float32(1.0 / 60.0)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	// Smaller grid keeps the tests fast without changing behavior
	cfg.Avatar.GridResolution = 24
	return cfg
}

func solidField(cfg *config.Config) *sampler.Field {
	size := cfg.Avatar.RenderSize
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 180, G: 120, B: 255, A: 255})
		}
	}
	return sampler.FromImage(img, cfg)
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := testConfig(t)
	e := New(cfg, solidField(cfg), 42)
	if e.Count() == 0 {
		t.Fatal("expected particles from a solid field")
	}
	return e
}

// run ticks the engine for roughly the given number of seconds.
func run(e *Engine, seconds float32) {
	for elapsed := float32(0); elapsed < seconds; elapsed += testDT {
		e.Tick(testDT)
	}
}

func TestValidTransitions(t *testing.T) {
	cases := []struct {
		from, to Phase
		want     bool
	}{
		{PhaseIdle, PhaseDissolving, true},
		{PhaseDissolving, PhaseVortex, true},
		{PhaseVortex, PhaseReforming, true},
		{PhaseVortex, PhaseSpeaking, true},
		{PhaseReforming, PhaseSpeaking, true},
		{PhaseReforming, PhaseIdle, true},
		{PhaseSpeaking, PhaseReforming, true},
		{PhaseIdle, PhaseSpeaking, false},
		{PhaseDissolving, PhaseReforming, false},
		{PhaseSpeaking, PhaseVortex, false},
	}
	for _, c := range cases {
		if got := ValidTransition(c.from, c.to); got != c.want {
			t.Errorf("ValidTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestCountConservedAcrossCycle(t *testing.T) {
	e := newTestEngine(t)
	want := e.Count()

	walk := []Phase{PhaseDissolving, PhaseVortex, PhaseSpeaking, PhaseReforming, PhaseIdle}
	for _, p := range walk {
		e.SetPhase(p)
		run(e, 1.2)
		if e.Count() != want {
			t.Fatalf("count changed in %s: got %d, want %d", p, e.Count(), want)
		}
	}
}

func TestDissolveCompletesOnce(t *testing.T) {
	e := newTestEngine(t)

	fired := 0
	var completed Phase
	e.OnPhaseComplete(func(p Phase) {
		fired++
		completed = p
	})

	e.SetPhase(PhaseDissolving)
	run(e, 2.5) // well past the configured duration

	if fired != 1 {
		t.Fatalf("completion fired %d times, want 1", fired)
	}
	if completed != PhaseDissolving {
		t.Errorf("completed phase = %s, want dissolving", completed)
	}
	for i, pt := range e.Particles() {
		if pt.Attached {
			t.Fatalf("particle %d still attached after dissolve", i)
		}
	}
}

func TestReformSnapsExactly(t *testing.T) {
	e := newTestEngine(t)

	fired := 0
	e.OnPhaseComplete(func(p Phase) {
		if p == PhaseReforming {
			fired++
		}
	})

	e.SetPhase(PhaseDissolving)
	run(e, 1.2)
	e.SetPhase(PhaseVortex)
	run(e, 0.5)
	e.SetPhase(PhaseReforming)
	run(e, 1.5)

	if fired != 1 {
		t.Fatalf("reform completion fired %d times, want 1", fired)
	}
	for i, pt := range e.Particles() {
		if pt.X != pt.OriginX || pt.Y != pt.OriginY {
			t.Fatalf("particle %d at (%g, %g), want exact origin (%g, %g)",
				i, pt.X, pt.Y, pt.OriginX, pt.OriginY)
		}
		if pt.Opacity != 1 {
			t.Fatalf("particle %d opacity %g, want 1", i, pt.Opacity)
		}
		if !pt.Attached {
			t.Fatalf("particle %d not reattached", i)
		}
	}
}

func TestVortexContainment(t *testing.T) {
	e := newTestEngine(t)
	cfg := e.cfg
	maxR := float32(cfg.Avatar.Vortex.MaxRadiusFrac) * e.half

	e.SetPhase(PhaseDissolving)
	run(e, 1.2)
	e.SetPhase(PhaseVortex)
	run(e, 3)

	for i, pt := range e.Particles() {
		dx := pt.X - e.half
		dy := pt.Y - e.half
		dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		if dist > maxR+0.01 {
			t.Fatalf("particle %d at radius %g exceeds containment %g", i, dist, maxR)
		}
	}
}

func TestArcsSpawnAndExpire(t *testing.T) {
	e := newTestEngine(t)

	e.SetPhase(PhaseVortex)
	run(e, 1.6) // past the spawn interval
	if len(e.Arcs()) == 0 {
		t.Fatal("expected arcs after a full spawn interval")
	}
	maxR := float32(e.cfg.Avatar.Vortex.MaxRadiusFrac) * e.half
	for _, a := range e.Arcs() {
		if a.Radius <= 0 || a.Radius > maxR {
			t.Errorf("arc radius %g outside (0, %g]", a.Radius, maxR)
		}
		if alpha := a.Alpha(); alpha < 0 || alpha > 1 {
			t.Errorf("arc alpha %g outside [0, 1]", alpha)
		}
	}

	// Leaving vortex drops the remaining arcs
	e.SetPhase(PhaseReforming)
	if len(e.Arcs()) != 0 {
		t.Errorf("%d arcs survived the transition out of vortex", len(e.Arcs()))
	}
}

func TestSpeakingFiniteAtZeroAudio(t *testing.T) {
	e := newTestEngine(t)
	size := e.size

	e.SetPhase(PhaseDissolving)
	run(e, 1.2)
	e.SetPhase(PhaseVortex)
	run(e, 0.5)
	e.SetPhase(PhaseSpeaking)
	run(e, 2)

	for i, pt := range e.Particles() {
		if math.IsNaN(float64(pt.X)) || math.IsNaN(float64(pt.Y)) {
			t.Fatalf("particle %d has NaN position at zero audio", i)
		}
		if pt.X < -size*0.1 || pt.X > size*1.1 || pt.Y < -size*0.1 || pt.Y > size*1.1 {
			t.Fatalf("particle %d at (%g, %g) far outside the render square", i, pt.X, pt.Y)
		}
		if pt.Opacity <= 0 || pt.Opacity > 1.01 {
			t.Fatalf("particle %d opacity %g outside (0, 1]", i, pt.Opacity)
		}
		if pt.Depth < -1.01 || pt.Depth > 1.01 {
			t.Fatalf("particle %d depth %g outside [-1, 1]", i, pt.Depth)
		}
	}
}

func TestSpeakingBlendsFromVortex(t *testing.T) {
	e := newTestEngine(t)

	e.SetPhase(PhaseDissolving)
	run(e, 1.2)
	e.SetPhase(PhaseVortex)
	run(e, 1)

	before := make([][2]float32, e.Count())
	for i, pt := range e.Particles() {
		before[i] = [2]float32{pt.X, pt.Y}
	}

	// At the start of the blend window particles stay near their vortex
	// positions instead of snapping onto the shell.
	e.SetPhase(PhaseSpeaking)
	e.Tick(0.001)
	for i, pt := range e.Particles() {
		dx := pt.X - before[i][0]
		dy := pt.Y - before[i][1]
		if d := math.Sqrt(float64(dx*dx + dy*dy)); d > 5 {
			t.Fatalf("particle %d jumped %.1fpx at blend start", i, d)
		}
	}

	// Past the blend window the formation has visibly moved
	run(e, 1.5)
	moved := 0
	for i, pt := range e.Particles() {
		dx := pt.X - before[i][0]
		dy := pt.Y - before[i][1]
		if dx*dx+dy*dy > 4 {
			moved++
		}
	}
	if moved < e.Count()/2 {
		t.Errorf("only %d/%d particles moved after the blend window", moved, e.Count())
	}
}

func TestAudioLevelClamped(t *testing.T) {
	e := newTestEngine(t)

	e.SetAudioLevel(-3)
	if got := e.AudioLevel(); got != 0 {
		t.Errorf("negative input: level %g, want 0", got)
	}
	e.SetAudioLevel(7)
	if got := e.AudioLevel(); got != 1 {
		t.Errorf("oversized input: level %g, want 1", got)
	}
	e.SetAudioLevel(float32(math.NaN()))
	if got := e.AudioLevel(); got != 0 {
		t.Errorf("NaN input: level %g, want 0", got)
	}
}

func TestTickRejectsBadDT(t *testing.T) {
	e := newTestEngine(t)
	e.SetPhase(PhaseDissolving)
	run(e, 0.2)

	before := make([][2]float32, e.Count())
	for i, pt := range e.Particles() {
		before[i] = [2]float32{pt.X, pt.Y}
	}

	e.Tick(0)
	e.Tick(-0.016)
	e.Tick(float32(math.NaN()))

	for i, pt := range e.Particles() {
		if pt.X != before[i][0] || pt.Y != before[i][1] {
			t.Fatalf("particle %d moved on rejected dt", i)
		}
	}
}

func TestUnexpectedTransitionStaysFinite(t *testing.T) {
	e := newTestEngine(t)

	// Outside the intended cycle but must not corrupt state
	e.SetPhase(PhaseSpeaking)
	run(e, 1)

	for i, pt := range e.Particles() {
		if math.IsNaN(float64(pt.X)) || math.IsNaN(float64(pt.Y)) {
			t.Fatalf("particle %d has NaN position after idle -> speaking", i)
		}
	}
}

func TestSetPhaseResetsVelocity(t *testing.T) {
	e := newTestEngine(t)

	e.SetPhase(PhaseDissolving)
	run(e, 0.5) // builds inward velocity

	e.SetPhase(PhaseVortex)
	for i, pt := range e.Particles() {
		if pt.VX != 0 || pt.VY != 0 {
			t.Fatalf("particle %d carried velocity (%g, %g) across transition", i, pt.VX, pt.VY)
		}
	}
}

func TestIdleHidesParticles(t *testing.T) {
	e := newTestEngine(t)

	e.SetPhase(PhaseDissolving)
	run(e, 0.3)
	e.SetPhase(PhaseIdle)

	for i, pt := range e.Particles() {
		if pt.Opacity != 0 {
			t.Fatalf("particle %d visible in idle, opacity %g", i, pt.Opacity)
		}
	}
}

func TestReducedMotionSingleFrame(t *testing.T) {
	cfg := testConfig(t)
	cfg.Avatar.ReducedMotion = true
	e := New(cfg, solidField(cfg), 42)

	if e.Count() > cfg.Avatar.ReducedParticles {
		t.Fatalf("reduced motion kept %d particles, cap is %d", e.Count(), cfg.Avatar.ReducedParticles)
	}

	e.SetPhase(PhaseVortex)
	e.Tick(testDT)

	after := make([][2]float32, e.Count())
	for i, pt := range e.Particles() {
		after[i] = [2]float32{pt.X, pt.Y}
	}

	// Further ticks hold the frame until the next phase change
	run(e, 0.5)
	for i, pt := range e.Particles() {
		if pt.X != after[i][0] || pt.Y != after[i][1] {
			t.Fatalf("particle %d moved after the reduced-motion frame", i)
		}
	}
}

func TestDisposeIdempotent(t *testing.T) {
	e := newTestEngine(t)

	e.Dispose()
	e.Dispose()

	if e.Count() != 0 {
		t.Errorf("count %d after dispose, want 0", e.Count())
	}
	e.Tick(testDT)       // must not panic
	e.SetPhase(PhaseVortex)
	if e.Phase() != PhaseIdle {
		t.Errorf("disposed engine changed phase to %s", e.Phase())
	}
}

func TestResampleRestartsCycle(t *testing.T) {
	e := newTestEngine(t)

	e.SetPhase(PhaseDissolving)
	run(e, 0.5)

	e.Resample(solidField(e.cfg))
	if e.Phase() != PhaseIdle {
		t.Errorf("phase %s after resample, want idle", e.Phase())
	}
	for i, pt := range e.Particles() {
		if pt.X != pt.OriginX || pt.Y != pt.OriginY {
			t.Fatalf("particle %d not at origin after resample", i)
		}
	}
}
