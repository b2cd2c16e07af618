package engine

// Arc is a decorative energy arc spawned during vortex. Arcs are purely
// visual and never exert force on particles.
type Arc struct {
	StartAngle float32
	EndAngle   float32
	Radius     float32
	Life       float32 // seconds remaining
	MaxLife    float32
}

// Alpha returns the arc's fade factor in [0, 1].
func (a Arc) Alpha() float32 {
	if a.MaxLife <= 0 {
		return 0
	}
	return clamp01(a.Life / a.MaxLife)
}

// stepArcs spawns arcs on the configured period and expires old ones.
func (e *Engine) stepArcs(dt float32) {
	vcfg := &e.cfg.Avatar.Vortex

	e.arcTimer += dt
	if vcfg.ArcIntervalSec > 0 && e.arcTimer >= float32(vcfg.ArcIntervalSec) {
		e.arcTimer = 0
		maxR := float32(vcfg.MaxRadiusFrac) * e.half
		start := e.rng.Float32() * tau
		life := float32(vcfg.ArcLifeSec)
		e.arcs = append(e.arcs, Arc{
			StartAngle: start,
			EndAngle:   start + 0.5 + e.rng.Float32(),
			Radius:     maxR * (0.4 + 0.5*e.rng.Float32()),
			Life:       life,
			MaxLife:    life,
		})
	}

	alive := e.arcs[:0]
	for _, a := range e.arcs {
		a.Life -= dt
		if a.Life > 0 {
			alive = append(alive, a)
		}
	}
	e.arcs = alive
}
