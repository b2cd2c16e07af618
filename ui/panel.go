// Package ui draws the demo control panel: phase triggers, a manual audio
// slider and a frame-stats readout.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aura/engine"
	"github.com/pthm-cable/aura/telemetry"
)

const (
	buttonHeight = 30
	buttonGap    = 10
	rowGap       = 35
)

// Panel is the demo's right-side control panel.
type Panel struct {
	x, y    float32
	width   float32
	visible bool

	audio float32 // manual slider value, used when no WAV is playing
}

// NewPanel creates a panel anchored at (x, y).
func NewPanel(x, y, width float32) *Panel {
	return &Panel{x: x, y: y, width: width, visible: true}
}

// Toggle switches panel visibility and returns the new state.
func (p *Panel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// Visible returns whether the panel is shown.
func (p *Panel) Visible() bool {
	return p.visible
}

// Audio returns the manual slider level in [0, 1].
func (p *Panel) Audio() float32 {
	return p.audio
}

// Draw renders the panel and returns the phase requested by a button press.
// ok is false when no button was pressed this frame.
func (p *Panel) Draw(current engine.Phase, stats telemetry.FrameStats) (next engine.Phase, ok bool) {
	if !p.visible {
		return 0, false
	}

	x := p.x
	y := p.y
	bw := (p.width - buttonGap) / 2

	rl.DrawText("Avatar", int32(x), int32(y), 20, rl.RayWhite)
	rl.DrawText(current.String(), int32(x+p.width)-rl.MeasureText(current.String(), 16), int32(y+3), 16, rl.SkyBlue)
	y += rowGap

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: buttonHeight}, "Dissolve") {
		next, ok = engine.PhaseDissolving, true
	}
	if gui.Button(rl.Rectangle{X: x + bw + buttonGap, Y: y, Width: bw, Height: buttonHeight}, "Reform") {
		next, ok = engine.PhaseReforming, true
	}
	y += buttonHeight + buttonGap

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: buttonHeight}, "Speak") {
		next, ok = engine.PhaseSpeaking, true
	}
	if gui.Button(rl.Rectangle{X: x + bw + buttonGap, Y: y, Width: bw, Height: buttonHeight}, "Hide") {
		next, ok = engine.PhaseIdle, true
	}
	y += buttonHeight + rowGap

	rl.DrawText("Audio level", int32(x), int32(y), 14, rl.Gray)
	y += 18
	p.audio = gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: p.width - 50, Height: 20},
		"0", "1",
		p.audio, 0, 1,
	)
	rl.DrawText(fmt.Sprintf("%.2f", p.audio), int32(x+p.width-40), int32(y+2), 16, rl.Gray)
	y += rowGap

	if stats.FPS > 0 {
		rl.DrawText(fmt.Sprintf("%.0f fps  avg %.1fms  p95 %.1fms",
			stats.FPS, stats.AvgFrameUS/1000, stats.P95FrameUS/1000),
			int32(x), int32(y), 14, rl.DarkGray)
	}

	return next, ok
}
