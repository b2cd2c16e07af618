package engine

import "math"

// goldenAngle spaces shell particles evenly on the sphere.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// enterSpeaking assigns a majority of particles to a hollow spherical shell
// via a golden-angle distribution and the rest to layered elliptical wisp
// orbits. When arriving from vortex, current positions are recorded so the
// blend window can interpolate instead of snapping.
func (e *Engine) enterSpeaking() {
	scfg := &e.cfg.Avatar.Speaking
	n := len(e.particles)
	nShell := int(float64(n) * scfg.ShellFraction)
	if nShell > n {
		nShell = n
	}

	wispMin := float32(scfg.WispMinFrac) * e.half
	wispBand := float32(scfg.WispMaxFrac)*e.half - wispMin
	wispSpeed := float32(scfg.WispSpeed)

	for i := range e.particles {
		pt := &e.particles[i]
		if i < nShell {
			// Even spacing on the unit sphere
			y := 1 - 2*(float32(i)+0.5)/float32(nShell)
			r := sqrt32(1 - y*y)
			th := float32(goldenAngle) * float32(i)
			pt.shell = true
			pt.sx = cos32(th) * r
			pt.sy = y
			pt.sz = sin32(th) * r
		} else {
			pt.shell = false
			pt.wispA = wispMin + e.rng.Float32()*wispBand
			pt.wispB = pt.wispA * (0.45 + 0.35*e.rng.Float32())
			pt.wispTilt = e.rng.Float32() * tau
			pt.wispPhase = e.rng.Float32() * tau
			pt.wispSpeed = wispSpeed * (0.6 + 0.8*e.rng.Float32())
		}
	}

	if e.prevPhase == PhaseVortex {
		e.blending = true
		for i := range e.particles {
			e.particles[i].blendX = e.particles[i].X
			e.particles[i].blendY = e.particles[i].Y
		}
	}
}

// stepSpeaking rotates the shell, wanders it with the noise field, and
// orbits the wisps. Shell radius, glow and flow speed all scale with the
// smoothed audio level; at level 0 every output is static and finite.
func (e *Engine) stepSpeaking(dt float32) {
	scfg := &e.cfg.Avatar.Speaking
	level := e.audio.Level()

	e.speakRot += float32(scfg.RotationSpeed) * (1 + level*1.5) * dt
	shellR := float32(scfg.ShellRadius) * e.size * (1 + float32(scfg.RadiusGain)*level)
	wander := float32(scfg.Wander)
	flowT := float64(e.time) * scfg.FlowSpeed * float64(1+level)
	glow := float32(scfg.GlowBase) + float32(scfg.GlowGain)*level

	blend := float32(1)
	if e.blending {
		b := progress(e.phaseElapsed, float32(e.cfg.Avatar.SpeakBlendSec))
		blend = smoothstep(b)
		if b >= 1 {
			e.blending = false
		}
	}

	cosR := cos32(e.speakRot)
	sinR := sin32(e.speakRot)

	for i := range e.particles {
		pt := &e.particles[i]

		var tx, ty, depth float32
		if pt.shell {
			// Rotate the shell direction around the vertical axis
			x := pt.sx*cosR + pt.sz*sinR
			z := -pt.sx*sinR + pt.sz*cosR

			wx, wy := e.field.Wander(float64(pt.NoiseOffset), flowT)
			tx = e.half + x*shellR + wx*wander
			ty = e.half + pt.sy*shellR + wy*wander
			depth = z
			pt.Opacity = glow
		} else {
			pt.wispPhase += pt.wispSpeed * (1 + 0.5*level) * dt
			ex := cos32(pt.wispPhase) * pt.wispA
			ey := sin32(pt.wispPhase) * pt.wispB
			ct := cos32(pt.wispTilt)
			st := sin32(pt.wispTilt)
			tx = e.half + ex*ct - ey*st
			ty = e.half + ex*st + ey*ct
			depth = sin32(pt.wispPhase) * 0.5
			pt.Opacity = 0.35 + 0.25*level
		}

		if blend < 1 {
			pt.X = pt.blendX + (tx-pt.blendX)*blend
			pt.Y = pt.blendY + (ty-pt.blendY)*blend
		} else {
			pt.X = tx
			pt.Y = ty
		}
		pt.Depth = depth
	}
}
