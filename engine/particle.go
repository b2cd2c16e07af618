package engine

// Particle is one simulated point of the avatar field.
//
// The exported attributes are what the renderer streams each tick. The
// unexported fields are per-phase scratch owned by the integrator; phases
// only ever mutate attributes, they never add or remove particles.
type Particle struct {
	OriginX, OriginY float32 // sampled position, reform target
	X, Y             float32
	VX, VY           float32 // px/sec
	R, G, B          uint8
	Size             float32
	Opacity          float32 // [0, 1]
	Depth            float32 // simulated z in [-1, 1], 0 = focal plane
	Attached         bool    // locked to origin
	NoiseOffset      float32 // per-particle field stagger
	DistNorm         float32 // distance from center / half size, precomputed

	// vortex / reform scratch
	orbitAngle  float32
	orbitRadius float32
	spin        float32 // per-particle angular speed multiplier

	// speaking scratch
	shell      bool
	sx, sy, sz float32 // unit shell direction before rotation
	wispA      float32 // ellipse semi-axes
	wispB      float32
	wispTilt   float32
	wispPhase  float32
	wispSpeed  float32

	// vortex -> speaking blend origin
	blendX, blendY float32
}
