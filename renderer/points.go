// Package renderer draws the avatar and ambient particle sets as additive
// point sprites. Construction probes for a live GPU context; without one the
// renderer runs headless and every draw call is a no-op, which keeps tests
// and batch runs off the GPU entirely.
package renderer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/aura/ambient"
	"github.com/pthm-cable/aura/engine"
)

// spriteSize is the side of the radial gradient sprite in pixels. Point
// sprites are drawn scaled, so a small texture is enough.
const spriteSize = 64

// depthScale is how much a particle's depth grows or shrinks its sprite.
const depthScale = 0.35

// PointRenderer draws particle sets through a shared soft-glow sprite.
type PointRenderer struct {
	sprite   rl.Texture2D
	spriteW  float32
	headless bool
	unloaded bool
}

// New creates a point renderer. If no raylib window is ready the renderer
// comes up headless instead of failing.
func New() *PointRenderer {
	r := &PointRenderer{}
	if !contextReady() {
		r.headless = true
		slog.Warn("no GPU context, renderer running headless")
		return r
	}

	img := rl.GenImageGradientRadial(spriteSize, spriteSize, 0.3, rl.White, rl.Blank)
	r.sprite = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.sprite, rl.FilterBilinear)
	rl.UnloadImage(img)
	r.spriteW = spriteSize
	return r
}

// contextReady reports whether a raylib window exists. The call can fault
// when raylib was never initialized, so it is probed behind a recover.
func contextReady() (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return rl.IsWindowReady()
}

// Headless reports whether draw calls are no-ops.
func (r *PointRenderer) Headless() bool {
	return r.headless
}

// DrawAvatar renders the avatar particle set offset to (offX, offY). Depth
// scales the sprite so shell particles nearer the viewer read larger.
func (r *PointRenderer) DrawAvatar(particles []engine.Particle, offX, offY float32) {
	if r.headless || r.unloaded {
		return
	}

	src := rl.Rectangle{Width: r.spriteW, Height: r.spriteW}
	rl.BeginBlendMode(rl.BlendAdditive)
	for i := range particles {
		p := &particles[i]
		a := p.Opacity
		if a <= 0.01 {
			continue
		}
		if a > 1 {
			a = 1
		}

		size := p.Size * (1 + depthScale*p.Depth)
		dst := rl.Rectangle{
			X:      offX + p.X - size,
			Y:      offY + p.Y - size,
			Width:  size * 2,
			Height: size * 2,
		}
		tint := rl.Color{R: p.R, G: p.G, B: p.B, A: uint8(a * 255)}
		rl.DrawTexturePro(r.sprite, src, dst, rl.Vector2{}, 0, tint)
	}
	rl.EndBlendMode()
}

// DrawAmbient renders the overlay particle set in canvas coordinates.
func (r *PointRenderer) DrawAmbient(particles []ambient.Particle) {
	if r.headless || r.unloaded {
		return
	}

	src := rl.Rectangle{Width: r.spriteW, Height: r.spriteW}
	rl.BeginBlendMode(rl.BlendAdditive)
	for i := range particles {
		p := &particles[i]
		a := p.Opacity
		if a <= 0.01 {
			continue
		}
		if a > 1 {
			a = 1
		}

		dst := rl.Rectangle{
			X:      p.X - p.Size,
			Y:      p.Y - p.Size,
			Width:  p.Size * 2,
			Height: p.Size * 2,
		}
		tint := rl.Color{R: p.R, G: p.G, B: p.B, A: uint8(a * 255)}
		rl.DrawTexturePro(r.sprite, src, dst, rl.Vector2{}, 0, tint)
	}
	rl.EndBlendMode()
}

// Unload releases the sprite texture. Idempotent and safe headless.
func (r *PointRenderer) Unload() {
	if r.headless || r.unloaded {
		return
	}
	r.unloaded = true
	rl.UnloadTexture(r.sprite)
}
