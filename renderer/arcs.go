package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aura/engine"
)

const radToDeg = 180 / math.Pi

// arcColor is the whitish cyan of the vortex energy arcs.
var arcColor = rl.Color{R: 170, G: 230, B: 255, A: 255}

// DrawArcs renders the decorative vortex arcs as thin additive ring
// segments centered on (cx, cy).
func (r *PointRenderer) DrawArcs(arcs []engine.Arc, cx, cy float32) {
	if r.headless || r.unloaded {
		return
	}

	center := rl.Vector2{X: cx, Y: cy}
	rl.BeginBlendMode(rl.BlendAdditive)
	for i := range arcs {
		a := &arcs[i]
		alpha := a.Alpha()
		if alpha <= 0.01 {
			continue
		}

		col := arcColor
		col.A = uint8(alpha * 200)
		rl.DrawRing(center,
			a.Radius-1, a.Radius+1,
			a.StartAngle*radToDeg, a.EndAngle*radToDeg,
			24, col)
	}
	rl.EndBlendMode()
}
