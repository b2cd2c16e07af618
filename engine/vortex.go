package engine

// enterVortex scatters particles onto randomized circular positions in an
// annulus centered on the base radius. Sampling sqrt of the interpolated
// squared radii keeps the area density uniform instead of bunching inward.
func (e *Engine) enterVortex() {
	vcfg := &e.cfg.Avatar.Vortex
	maxR := float32(vcfg.MaxRadiusFrac) * e.half
	minR := float32(2*vcfg.BaseRadiusFrac-vcfg.MaxRadiusFrac) * e.half
	if minR < 0 {
		minR = 0
	}
	for i := range e.particles {
		pt := &e.particles[i]
		pt.orbitAngle = e.rng.Float32() * tau
		u := e.rng.Float32()
		pt.orbitRadius = sqrt32(minR*minR + (maxR*maxR-minR*minR)*u)
		pt.X = e.half + cos32(pt.orbitAngle)*pt.orbitRadius
		pt.Y = e.half + sin32(pt.orbitAngle)*pt.orbitRadius
		pt.Attached = false
	}
	e.arcTimer = 0
}

const tau = 6.2831853

// stepVortex orbits particles at slightly varying angular speed with a
// breathing radius wave, clamped to the containment radius. Opacity fades
// toward the outer boundary for a soft silhouette.
func (e *Engine) stepVortex(dt float32) {
	vcfg := &e.cfg.Avatar.Vortex
	maxR := float32(vcfg.MaxRadiusFrac) * e.half
	angSpeed := float32(vcfg.AngularSpeed)
	wave := float32(vcfg.RadiusWave) * e.half
	waveSpeed := float32(vcfg.WaveSpeed)
	fadeStart := float32(vcfg.EdgeFadeStart)

	for i := range e.particles {
		pt := &e.particles[i]

		pt.orbitAngle += angSpeed * pt.spin * dt

		// Smooth time-based breathing plus per-particle stagger
		w := sin32(e.time*waveSpeed + pt.NoiseOffset)
		r := pt.orbitRadius + wave*w*0.5
		if r > maxR {
			r = maxR
		}
		if r < 0 {
			r = 0
		}

		pt.X = e.half + cos32(pt.orbitAngle)*r
		pt.Y = e.half + sin32(pt.orbitAngle)*r

		// Edge fade toward the containment boundary
		edge := r / maxR
		if edge > fadeStart {
			pt.Opacity = 1 - (edge-fadeStart)/(1-fadeStart)*0.8
		} else if pt.Opacity < 1 {
			pt.Opacity = minf(1, pt.Opacity+2*dt)
		}
	}
}
