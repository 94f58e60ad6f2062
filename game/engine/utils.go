package engine

import "math"

// Extrapolate grows principal continuously at rate (a fraction, i.e. percent/100) for
// the given number of years: principal * e^(rate*years).
func Extrapolate(principal, rate, years float64) float64 {
	return principal * math.Exp(rate*years)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Lerp interpolates between a and b; t is clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// validDelta reports whether dt can advance the simulation.
func validDelta(dt float64) bool {
	return dt > 0 && !math.IsInf(dt, 1)
}
