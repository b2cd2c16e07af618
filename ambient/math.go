package ambient

import "math"

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

// wrap folds x into [0, max) toroidally. Values are at most one span out
// of bounds per tick, so a repeated add/subtract is cheaper than Mod.
func wrap(x, max float32) float32 {
	for x < 0 {
		x += max
	}
	for x >= max {
		x -= max
	}
	return x
}

// edgeDistance returns the distance to the nearest canvas edge.
func edgeDistance(x, y, w, h float32) float32 {
	d := x
	if w-x < d {
		d = w - x
	}
	if y < d {
		d = y
	}
	if h-y < d {
		d = h - y
	}
	if d < 0 {
		d = 0
	}
	return d
}

func lerpColor(a, b int, t float32) uint8 {
	return uint8(float32(a) + (float32(b)-float32(a))*t)
}
