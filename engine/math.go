package engine

import "math"

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// progress converts elapsed time to normalized phase progress. Unbounded
// phases (duration <= 0) always report 0.
func progress(elapsed, duration float32) float32 {
	if duration <= 0 {
		return 0
	}
	return clamp01(elapsed / duration)
}

// easeOutCubic accelerates quickly then settles; used for the implosion pull.
func easeOutCubic(t float32) float32 {
	u := 1 - t
	return 1 - u*u*u
}

// smoothstep is the usual 3t^2 - 2t^3 ease.
func smoothstep(t float32) float32 {
	return t * t * (3 - 2*t)
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func sin32(x float32) float32 {
	return float32(math.Sin(float64(x)))
}

func cos32(x float32) float32 {
	return float32(math.Cos(float64(x)))
}

func atan232(y, x float32) float32 {
	return float32(math.Atan2(float64(y), float64(x)))
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
