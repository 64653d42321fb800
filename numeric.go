package wad

import (
	"math"

	"golang.org/x/exp/constraints"
)

func clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// fract returns the fractional part of v, always in [0, 1).
func fract[T constraints.Float](v T) T {
	return v - T(math.Floor(float64(v)))
}

// pegOffset is the vertical texture shift that anchors a texture of height texHeight to the
// far end of an extent of height extent. An extent that is a whole number of texture heights
// needs no shift.
func pegOffset[T constraints.Integer | constraints.Float](extent, texHeight T) float32 {
	if texHeight == 0 {
		return 0
	}
	h := float64(texHeight)
	off := h * (1 - fract(float64(extent)/h))
	return float32(math.Trunc(math.Mod(off, h)))
}
