package engine

import "math"

// enterReform seeds the orbit scratch from current positions so particles
// arriving from any phase (not just vortex) decay smoothly while they wait
// for their convergence turn.
func (e *Engine) enterReform() {
	for i := range e.particles {
		pt := &e.particles[i]
		dx := pt.X - e.half
		dy := pt.Y - e.half
		pt.orbitAngle = atan232(dy, dx)
		pt.orbitRadius = sqrt32(dx*dx + dy*dy)
	}
}

// stepReform converges particles radially inward-to-outward: a particle
// becomes eligible once global progress exceeds its normalized distance
// from center, then eases toward its origin with a partial-step lerp.
// Ineligible particles continue a decaying vortex rotation.
func (e *Engine) stepReform(dt, p float32) {
	// Frame-rate independent partial step toward the origin
	step := 1 - float32(math.Exp(float64(-float32(e.cfg.Avatar.ReformStep)*dt)))
	angSpeed := float32(e.cfg.Avatar.Vortex.AngularSpeed)
	decay := 1 - p

	for i := range e.particles {
		pt := &e.particles[i]

		if p >= pt.DistNorm {
			pt.X += (pt.OriginX - pt.X) * step
			pt.Y += (pt.OriginY - pt.Y) * step
			pt.Opacity += (1 - pt.Opacity) * step
		} else {
			pt.orbitAngle += angSpeed * pt.spin * decay * dt
			pt.orbitRadius *= 1 - 0.6*dt
			pt.X = e.half + cos32(pt.orbitAngle)*pt.orbitRadius
			pt.Y = e.half + sin32(pt.orbitAngle)*pt.orbitRadius
		}
	}
}

// finishReform snaps every particle exactly onto its origin, restores full
// opacity, reattaches, and signals completion.
func (e *Engine) finishReform() {
	for i := range e.particles {
		pt := &e.particles[i]
		pt.X = pt.OriginX
		pt.Y = pt.OriginY
		pt.VX = 0
		pt.VY = 0
		pt.Opacity = 1
		pt.Attached = true
	}
	e.fireComplete(PhaseReforming)
}
