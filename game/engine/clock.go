package engine

import "math"

const snapEpsilon = 1e-9

// Clock accumulates elapsed simulation seconds and converts them to in-world years.
// It holds no timer of its own; whoever drives the simulation calls Advance.
type Clock struct {
	elapsed        float64
	secondsPerYear float64
	paused         bool
}

// NewClock creates a clock where secondsPerYear real seconds make one in-world year.
func NewClock(secondsPerYear float64) *Clock {
	return &Clock{secondsPerYear: secondsPerYear}
}

// Advance adds dt seconds unless the clock is paused or dt is not positive.
// It reports whether time moved.
func (c *Clock) Advance(dt float64) bool {
	if c.paused || !validDelta(dt) {
		return false
	}
	c.elapsed += dt
	// Summed fixed steps drift; snap so whole seconds land on year boundaries
	if r := math.Round(c.elapsed); math.Abs(c.elapsed-r) < snapEpsilon {
		c.elapsed = r
	}
	return true
}

// Elapsed returns the raw elapsed seconds.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}

// Years returns elapsed time in fractional in-world years.
func (c *Clock) Years() float64 {
	return c.elapsed / c.secondsPerYear
}

// CurrentYear is the 0-indexed whole year: floor(Years()).
func (c *Clock) CurrentYear() int {
	return int(math.Floor(c.Years()))
}

// DisplayYear is the 1-indexed year shown to players.
func (c *Clock) DisplayYear() int {
	return c.CurrentYear() + 1
}

func (c *Clock) Paused() bool {
	return c.paused
}

func (c *Clock) SetPaused(paused bool) {
	c.paused = paused
}

// Reset rewinds to zero. The paused flag is left alone.
func (c *Clock) Reset() {
	c.elapsed = 0
}
