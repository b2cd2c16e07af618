// Package app wires the avatar engine, ambient overlay, renderer, audio
// meter and control panel into one frame loop for the demo binary.
package app

import (
	"image"
	"image/color"
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aura/ambient"
	"github.com/pthm-cable/aura/audio"
	"github.com/pthm-cable/aura/config"
	"github.com/pthm-cable/aura/engine"
	"github.com/pthm-cable/aura/renderer"
	"github.com/pthm-cable/aura/sampler"
	"github.com/pthm-cable/aura/telemetry"
	"github.com/pthm-cable/aura/ui"
)

// Options configures a run.
type Options struct {
	Seed      int64
	ImagePath string // avatar source image; empty uses a generated disc
	WavPath   string // optional speech audio driving the speaking phase
	OutputDir string // CSV output directory; empty disables
	LogStats  bool
	Headless  bool
}

// App owns the demo's simulation and rendering state.
type App struct {
	cfg  *config.Config
	opts Options

	eng     *engine.Engine
	overlay *ambient.Overlay
	rend    *renderer.PointRenderer
	panel   *ui.Panel
	perf    *telemetry.PerfCollector
	out     *telemetry.OutputManager
	meter   *audio.Meter // nil when no WAV was given

	frame      int
	offX, offY float32 // avatar canvas top-left on screen
	lastStats  telemetry.FrameStats
}

// New builds the app. The renderer probes for a GPU context itself, so New
// works both under a live window and headless.
func New(opts Options) (*App, error) {
	cfg := config.Cfg()

	field, err := loadField(opts.ImagePath, cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:   cfg,
		opts:  opts,
		eng:   engine.New(cfg, field, opts.Seed),
		perf:  telemetry.NewPerfCollector(cfg.Telemetry.Window),
		panel: ui.NewPanel(cfg.Derived.ScreenW32-270, 20, 250),
		offX:  (cfg.Derived.ScreenW32 - cfg.Derived.RenderSize32) / 2,
		offY:  (cfg.Derived.ScreenH32 - cfg.Derived.RenderSize32) / 2,
	}
	a.overlay = ambient.New(cfg, cfg.Derived.ScreenW32, cfg.Derived.ScreenH32, opts.Seed+1)
	a.rend = renderer.New()

	a.out, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := a.out.WriteConfig(cfg); err != nil {
		slog.Warn("config snapshot failed", "error", err)
	}

	if opts.WavPath != "" {
		m, err := audio.Open(opts.WavPath)
		if err != nil {
			slog.Warn("wav unavailable, using manual level", "error", err)
		} else {
			a.meter = m
		}
	}

	// Dissolve hands off to the vortex without host involvement; reform
	// settles into the rest pose and stays there.
	a.eng.OnPhaseComplete(func(p engine.Phase) {
		slog.Info("phase complete", "phase", p.String())
		if p == engine.PhaseDissolving {
			a.eng.SetPhase(engine.PhaseVortex)
		}
	})

	slog.Info("app ready",
		"particles", a.eng.Count(),
		"ambient", a.overlay.Count(),
		"seed", opts.Seed,
		"headless", a.rend.Headless(),
	)
	return a, nil
}

// loadField samples the avatar image, falling back to a generated radial
// gradient disc when no image was supplied.
func loadField(path string, cfg *config.Config) (*sampler.Field, error) {
	if path != "" {
		return sampler.Load(path, cfg)
	}
	return sampler.FromImage(fallbackDisc(cfg.Avatar.RenderSize), cfg), nil
}

// fallbackDisc draws a soft violet-to-cyan disc so the demo runs without
// any asset on disk.
func fallbackDisc(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	half := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - half
			dy := float64(y) + 0.5 - half
			dn := math.Sqrt(dx*dx+dy*dy) / half
			if dn > 1 {
				continue
			}
			t := dn * dn
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(150 - 60*t),
				G: uint8(120 + 80*t),
				B: 255,
				A: 255,
			})
		}
	}
	return img
}

// Tick returns the number of frames advanced so far.
func (a *App) Tick() int {
	return a.frame
}

// Phase returns the avatar's current phase.
func (a *App) Phase() engine.Phase {
	return a.eng.Phase()
}

// stateModifier maps the avatar phase onto the overlay's flow multiplier.
func stateModifier(p engine.Phase) float32 {
	switch p {
	case engine.PhaseVortex:
		return 1.4
	case engine.PhaseSpeaking:
		return 1.2
	case engine.PhaseIdle:
		return 0.6
	}
	return 1
}

// step advances both simulations by dt and records stage timings.
func (a *App) step(dt float32) {
	a.perf.StartFrame()

	a.perf.StartStage(telemetry.StageAudio)
	level := a.panel.Audio()
	if a.meter != nil && a.meter.Playing() {
		level = a.meter.Level()
	}
	a.eng.SetAudioLevel(level)
	a.overlay.SetAudioLevel(level)
	a.overlay.SetStateModifier(stateModifier(a.eng.Phase()))

	a.perf.StartStage(telemetry.StageAvatar)
	a.eng.Tick(dt)

	a.perf.StartStage(telemetry.StageAmbient)
	a.overlay.Tick(dt)
}

// flushStats closes a telemetry window when due.
func (a *App) flushStats() {
	a.frame++
	if a.cfg.Telemetry.Window <= 0 || a.frame%a.cfg.Telemetry.Window != 0 {
		return
	}
	a.lastStats = a.perf.Stats(a.frame)
	if a.opts.LogStats {
		a.lastStats.LogStats()
	}
	if err := a.out.WriteFrames(a.lastStats); err != nil {
		slog.Warn("frame stats write failed", "error", err)
	}
}

// UpdateHeadless advances one fixed-step frame without touching raylib.
func (a *App) UpdateHeadless() {
	dt := float32(1) / float32(a.cfg.Screen.TargetFPS)
	a.step(dt)
	a.perf.EndFrame()
	a.flushStats()
}

// Update advances one frame using the real frame time and live input.
func (a *App) Update() {
	a.handleInput()

	mouse := rl.GetMousePosition()
	onScreen := mouse.X >= 0 && mouse.Y >= 0 &&
		mouse.X < a.cfg.Derived.ScreenW32 && mouse.Y < a.cfg.Derived.ScreenH32
	a.overlay.SetCursor(mouse.X, mouse.Y, onScreen)

	a.step(rl.GetFrameTime())
}

// handleInput maps keyboard shortcuts onto phase changes.
func (a *App) handleInput() {
	switch {
	case rl.IsKeyPressed(rl.KeyD):
		a.eng.SetPhase(engine.PhaseDissolving)
	case rl.IsKeyPressed(rl.KeyR):
		a.eng.SetPhase(engine.PhaseReforming)
	case rl.IsKeyPressed(rl.KeyS):
		a.eng.SetPhase(engine.PhaseSpeaking)
		if a.meter != nil {
			if err := a.meter.Play(); err != nil {
				slog.Warn("wav playback failed", "error", err)
			}
		}
	case rl.IsKeyPressed(rl.KeyH):
		a.eng.SetPhase(engine.PhaseIdle)
	case rl.IsKeyPressed(rl.KeyTab):
		a.panel.Toggle()
	}
}

// Draw renders one frame and closes its telemetry sample.
func (a *App) Draw() {
	a.perf.StartStage(telemetry.StageDraw)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 8, G: 10, B: 18, A: 255})

	a.rend.DrawAmbient(a.overlay.Particles())
	a.rend.DrawAvatar(a.eng.Particles(), a.offX, a.offY)
	a.rend.DrawArcs(a.eng.Arcs(), a.offX+a.cfg.Derived.HalfSize32, a.offY+a.cfg.Derived.HalfSize32)

	if next, ok := a.panel.Draw(a.eng.Phase(), a.lastStats); ok {
		a.eng.SetPhase(next)
		if next == engine.PhaseSpeaking && a.meter != nil {
			if err := a.meter.Play(); err != nil {
				slog.Warn("wav playback failed", "error", err)
			}
		}
	}

	rl.EndDrawing()

	a.perf.EndFrame()
	a.flushStats()
}

// Unload tears everything down. Safe to call once at exit.
func (a *App) Unload() {
	if a.meter != nil {
		if err := a.meter.Close(); err != nil {
			slog.Warn("meter close failed", "error", err)
		}
	}
	a.rend.Unload()
	a.overlay.Dispose()
	a.eng.Dispose()
	if err := a.out.Close(); err != nil {
		slog.Warn("output close failed", "error", err)
	}
}
