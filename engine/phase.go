package engine

// Phase is one discrete mode of the avatar's animation cycle.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseDissolving
	PhaseVortex
	PhaseReforming
	PhaseSpeaking
)

// String returns the phase name for logging and telemetry.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDissolving:
		return "dissolving"
	case PhaseVortex:
		return "vortex"
	case PhaseReforming:
		return "reforming"
	case PhaseSpeaking:
		return "speaking"
	default:
		return "unknown"
	}
}

// transitions is the intended phase cycle. The engine accepts any pair
// without corrupting particle state; this table only records which moves
// the external controller is expected to make.
var transitions = map[Phase][]Phase{
	PhaseIdle:       {PhaseDissolving},
	PhaseDissolving: {PhaseVortex},
	PhaseVortex:     {PhaseReforming, PhaseSpeaking},
	PhaseReforming:  {PhaseSpeaking, PhaseIdle},
	PhaseSpeaking:   {PhaseReforming},
}

// ValidTransition reports whether from -> to is part of the intended cycle.
func ValidTransition(from, to Phase) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}
