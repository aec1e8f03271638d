package anim

import "math"

// EaseOutCubic maps linear progress p in [0,1] to a curve that starts fast
// and decelerates into the target
func EaseOutCubic(p float64) float64 {
	p = clamp01(p)
	return 1 - math.Pow(1-p, 3)
}

func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Lerp interpolates between from and to by t
func Lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}
