package terrain

import "math"

// Slope returns the central-difference gradient magnitude of h at (x, z)
// using sample distance d. ok is false if any of the four samples is missing.
func Slope(h HeightField, x, z, d float64) (slope float64, ok bool) {
	left, okL := h.HeightAt(x-d, z)
	right, okR := h.HeightAt(x+d, z)
	down, okD := h.HeightAt(x, z-d)
	up, okU := h.HeightAt(x, z+d)
	if !okL || !okR || !okD || !okU {
		return 0, false
	}

	slopeX := (right - left) / (2 * d)
	slopeZ := (up - down) / (2 * d)
	return math.Hypot(slopeX, slopeZ), true
}

// MaxDeviation returns the largest absolute height difference between (x, z)
// and the four points at distance d along the axes. ok is false if the center
// or any offset sample is missing.
func MaxDeviation(h HeightField, x, z, d float64) (deviation float64, ok bool) {
	center, ok := h.HeightAt(x, z)
	if !ok {
		return 0, false
	}

	offsets := [4][2]float64{{d, 0}, {-d, 0}, {0, d}, {0, -d}}
	for _, off := range offsets {
		v, ok := h.HeightAt(x+off[0], z+off[1])
		if !ok {
			return 0, false
		}
		if diff := math.Abs(v - center); diff > deviation {
			deviation = diff
		}
	}
	return deviation, true
}

// HeightFunc adapts a plain function to HeightField.
type HeightFunc func(x, z float64) (float64, bool)

// HeightAt implements HeightField.
func (f HeightFunc) HeightAt(x, z float64) (float64, bool) { return f(x, z) }
