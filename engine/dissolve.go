package engine

// enterDissolve resets every particle to its sampled origin at rest.
func (e *Engine) enterDissolve() {
	for i := range e.particles {
		pt := &e.particles[i]
		pt.X = pt.OriginX
		pt.Y = pt.OriginY
		pt.VX = 0
		pt.VY = 0
		pt.Opacity = 1
		pt.Attached = true
	}
}

// stepDissolve pulls particles toward the field center with a force that
// accelerates over eased progress, plus a perpendicular spiral component.
// Velocity is damped each tick before integrating position. Particles that
// reach the center fade out; the rest hold near-full opacity.
func (e *Engine) stepDissolve(dt, p float32) {
	ease := easeOutCubic(p)
	pull := float32(e.cfg.Avatar.ImplosionPull) * ease
	spiral := float32(e.cfg.Avatar.SpiralStrength) * ease
	damp := float32(e.cfg.Avatar.Damping)
	fadeR := float32(e.cfg.Avatar.CenterFadeFrac) * e.half

	for i := range e.particles {
		pt := &e.particles[i]

		dx := e.half - pt.X
		dy := e.half - pt.Y
		dist := sqrt32(dx*dx + dy*dy)
		if dist > 0.0001 {
			nx := dx / dist
			ny := dy / dist
			pt.VX += (nx*pull - ny*spiral) * dt
			pt.VY += (ny*pull + nx*spiral) * dt
		}

		pt.VX *= damp
		pt.VY *= damp
		pt.X += pt.VX * dt
		pt.Y += pt.VY * dt

		if dist < fadeR {
			pt.Opacity *= 0.86
		} else if pt.Opacity < 1 {
			pt.Opacity = minf(1, pt.Opacity+2*dt)
		}
	}
}

// finishDissolve detaches every particle and signals completion. The engine
// keeps integrating the collapsed state until the controller advances it.
func (e *Engine) finishDissolve() {
	for i := range e.particles {
		e.particles[i].Attached = false
	}
	e.fireComplete(PhaseDissolving)
}
