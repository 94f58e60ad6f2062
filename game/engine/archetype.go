package engine

import (
	"fmt"
	"strings"
)

// Archetype is an immutable catalog entry describing one kind of generator.
type Archetype struct {
	Name            string  `yaml:"name" json:"name"`
	YearAvailable   float64 `yaml:"year_available" json:"year_available"`     // 0 = available immediately
	BaseCost        float64 `yaml:"base_cost" json:"base_cost"`               // before inflation
	UpkeepCost      float64 `yaml:"upkeep_cost" json:"upkeep_cost"`           // per in-world year
	OperationalCost float64 `yaml:"operational_cost" json:"operational_cost"` // per click, informational
	WattsPerYear    float64 `yaml:"watts_per_year" json:"watts_per_year"`
	Continuous      bool    `yaml:"continuous" json:"continuous"`               // runs without clicks
	RuntimePerClick float64 `yaml:"runtime_per_click" json:"runtime_per_click"` // seconds queued per click
	MaxRuntime      float64 `yaml:"max_runtime" json:"max_runtime"`             // seconds
}

// ValidateArchetype checks a single catalog entry.
func ValidateArchetype(a Archetype) error {
	if strings.TrimSpace(a.Name) == "" {
		return invalidf("generator name is required")
	}
	if a.YearAvailable < 0 {
		return invalidf("generator %q: year_available must not be negative, got %v", a.Name, a.YearAvailable)
	}
	if a.BaseCost <= 0 {
		return invalidf("generator %q: base_cost must be positive, got %v", a.Name, a.BaseCost)
	}
	if a.UpkeepCost < 0 {
		return invalidf("generator %q: upkeep_cost must not be negative, got %v", a.Name, a.UpkeepCost)
	}
	if a.OperationalCost < 0 {
		return invalidf("generator %q: operational_cost must not be negative, got %v", a.Name, a.OperationalCost)
	}
	if a.WattsPerYear <= 0 {
		return invalidf("generator %q: watts_per_year must be positive, got %v", a.Name, a.WattsPerYear)
	}
	if a.RuntimePerClick < 0 {
		return invalidf("generator %q: runtime_per_click must not be negative, got %v", a.Name, a.RuntimePerClick)
	}
	if a.MaxRuntime < 0 {
		return invalidf("generator %q: max_runtime must not be negative, got %v", a.Name, a.MaxRuntime)
	}
	return nil
}

// Catalog is the shared, read-only arena of archetypes. Instances refer to entries by
// their index, which stays stable for the catalog's lifetime.
type Catalog struct {
	archetypes []Archetype
	byName     map[string]int
}

// NewCatalog validates and copies the archetypes. Names must be unique (case-insensitive).
func NewCatalog(archetypes []Archetype) (*Catalog, error) {
	if len(archetypes) == 0 {
		return nil, invalidf("at least one generator is required")
	}

	c := &Catalog{
		archetypes: make([]Archetype, len(archetypes)),
		byName:     make(map[string]int, len(archetypes)),
	}
	copy(c.archetypes, archetypes)

	for i, a := range c.archetypes {
		if err := ValidateArchetype(a); err != nil {
			return nil, err
		}
		key := strings.ToLower(a.Name)
		if _, dup := c.byName[key]; dup {
			return nil, invalidf("duplicate generator name %q", a.Name)
		}
		c.byName[key] = i
	}

	return c, nil
}

// Len returns the number of archetypes.
func (c *Catalog) Len() int {
	return len(c.archetypes)
}

// Get returns the archetype with the given index.
func (c *Catalog) Get(id int) (*Archetype, error) {
	if id < 0 || id >= len(c.archetypes) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownArchetype, id)
	}
	return &c.archetypes[id], nil
}

// Lookup finds an archetype index by name.
func (c *Catalog) Lookup(name string) (int, bool) {
	id, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// All returns a copy of every archetype in catalog order.
func (c *Catalog) All() []Archetype {
	out := make([]Archetype, len(c.archetypes))
	copy(out, c.archetypes)
	return out
}

// Available reports whether archetype id can be bought in currentYear.
func (c *Catalog) Available(id, currentYear int) bool {
	if id < 0 || id >= len(c.archetypes) {
		return false
	}
	return float64(currentYear) >= c.archetypes[id].YearAvailable
}

// Availability returns one flag per archetype, in catalog order.
func (c *Catalog) Availability(currentYear int) []bool {
	out := make([]bool, len(c.archetypes))
	for i := range c.archetypes {
		out[i] = c.Available(i, currentYear)
	}
	return out
}
