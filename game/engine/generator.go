package engine

// GeneratorInstance is a purchased generator occupying one land slot.
// The archetype is shared with the catalog and never modified through an instance.
type GeneratorInstance struct {
	archetype   *Archetype
	archetypeID int
	runtime     float64
}

func newGeneratorInstance(id int, archetype *Archetype) *GeneratorInstance {
	return &GeneratorInstance{archetype: archetype, archetypeID: id}
}

func (g *GeneratorInstance) Archetype() *Archetype {
	return g.archetype
}

func (g *GeneratorInstance) ArchetypeID() int {
	return g.archetypeID
}

// Runtime returns the queued seconds of operation, always within [0, MaxRuntime].
func (g *GeneratorInstance) Runtime() float64 {
	return g.runtime
}

// Producing reports whether the generator contributes supply right now.
func (g *GeneratorInstance) Producing() bool {
	return g.archetype.Continuous || g.runtime > 0
}

// AddRuntime queues seconds of operation, capped at the archetype's MaxRuntime.
func (g *GeneratorInstance) AddRuntime(seconds float64) {
	if !validDelta(seconds) {
		return
	}
	g.runtime += seconds
	if g.runtime > g.archetype.MaxRuntime {
		g.runtime = g.archetype.MaxRuntime
	}
}

// Tick burns dt seconds of queued runtime, floored at zero.
func (g *GeneratorInstance) Tick(dt float64) {
	if !validDelta(dt) {
		return
	}
	g.runtime -= dt
	if g.runtime < 0 {
		g.runtime = 0
	}
}
