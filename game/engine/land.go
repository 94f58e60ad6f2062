package engine

import "fmt"

// DefaultSlotsPerLevel is how many generator slots one level of land provides.
const DefaultSlotsPerLevel = 2

// LandConfig describes the land the player starts with and how it is priced.
type LandConfig struct {
	BaseLandCost       float64 `yaml:"base_land_cost" json:"base_land_cost"`
	InitialLandSize    int     `yaml:"initial_land_size" json:"initial_land_size"`
	LandCostMultiplier float64 `yaml:"land_cost_multiplier" json:"land_cost_multiplier"`
	SlotsPerLevel      int     `yaml:"slots_per_level" json:"slots_per_level"`
	GeneratorSellRate  float64 `yaml:"generator_sell_rate" json:"generator_sell_rate"` // percent of inflated base cost

	// InitialGenerators fills the first slots by archetype name; "" leaves a slot empty.
	InitialGenerators []string `yaml:"initial_generators" json:"initial_generators"`
}

// Market exposes the world values land pricing depends on.
type Market interface {
	InflationRate() float64
	CurrentYear() int
}

// Wallet is what land purchases are charged against.
type Wallet interface {
	Purchase(cost float64) bool
	Credit(amount float64)
}

// Land owns the slots and the generator instances bound to them.
type Land struct {
	cfg     LandConfig
	catalog *Catalog
	market  Market

	initial  []int // archetype ids, -1 for empty
	landSize int
	slots    []*GeneratorInstance
}

// NewLand resolves the initial generators against the catalog and builds land in its reset state.
func NewLand(cfg LandConfig, catalog *Catalog, market Market) (*Land, error) {
	if cfg.SlotsPerLevel <= 0 {
		return nil, invalidf("slots_per_level must be positive, got %d", cfg.SlotsPerLevel)
	}
	if capacity := cfg.InitialLandSize * cfg.SlotsPerLevel; len(cfg.InitialGenerators) > capacity {
		return nil, invalidf("%d initial generators do not fit on %d initial slots", len(cfg.InitialGenerators), capacity)
	}

	initial := make([]int, len(cfg.InitialGenerators))
	for i, name := range cfg.InitialGenerators {
		if name == "" {
			initial[i] = -1
			continue
		}
		id, ok := catalog.Lookup(name)
		if !ok {
			return nil, invalidf("initial generator %q is not in the catalog", name)
		}
		initial[i] = id
	}

	l := &Land{cfg: cfg, catalog: catalog, market: market, initial: initial}
	l.Reset()
	return l, nil
}

// Reset restores the initial land size and the initial generator set.
func (l *Land) Reset() {
	l.landSize = l.cfg.InitialLandSize
	l.slots = make([]*GeneratorInstance, l.landSize*l.cfg.SlotsPerLevel)
	for i, id := range l.initial {
		if id < 0 {
			continue
		}
		a, _ := l.catalog.Get(id)
		l.slots[i] = newGeneratorInstance(id, a)
	}
}

func (l *Land) LandSize() int      { return l.landSize }
func (l *Land) SlotsPerLevel() int { return l.cfg.SlotsPerLevel }
func (l *Land) SlotCount() int     { return len(l.slots) }

// Slot returns the instance bound to index, or nil when the slot is empty.
func (l *Land) Slot(index int) (*GeneratorInstance, error) {
	if index < 0 || index >= len(l.slots) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrSlotOutOfRange, index, len(l.slots))
	}
	return l.slots[index], nil
}

// LandCost is the price of the next level of land.
func (l *Land) LandCost() float64 {
	return l.cfg.BaseLandCost * float64(l.landSize) * l.cfg.LandCostMultiplier * l.market.InflationRate()
}

// GeneratorPrice is the current inflated purchase price of an archetype.
func (l *Land) GeneratorPrice(a *Archetype) float64 {
	return a.BaseCost * l.market.InflationRate()
}

// SaleValue is what selling an instance of a would credit right now.
func (l *Land) SaleValue(a *Archetype) float64 {
	return l.GeneratorPrice(a) * l.cfg.GeneratorSellRate / 100
}

// BuyLand charges LandCost and appends one level of empty slots.
func (l *Land) BuyLand(w Wallet) error {
	if !w.Purchase(l.LandCost()) {
		return ErrInsufficientFunds
	}
	l.landSize++
	l.slots = append(l.slots, make([]*GeneratorInstance, l.cfg.SlotsPerLevel)...)
	return nil
}

// BuyGenerator binds a new instance of archetypeID to an empty slot.
func (l *Land) BuyGenerator(w Wallet, slot, archetypeID int) error {
	current, err := l.Slot(slot)
	if err != nil {
		return err
	}
	if current != nil {
		return fmt.Errorf("%w: %d", ErrSlotOccupied, slot)
	}
	a, err := l.catalog.Get(archetypeID)
	if err != nil {
		return err
	}
	if !l.catalog.Available(archetypeID, l.market.CurrentYear()) {
		return fmt.Errorf("%w: %s arrives in year %v", ErrNotYetAvailable, a.Name, a.YearAvailable)
	}
	if !w.Purchase(l.GeneratorPrice(a)) {
		return ErrInsufficientFunds
	}
	l.slots[slot] = newGeneratorInstance(archetypeID, a)
	return nil
}

// SellGenerator clears the slot and credits the sale value. It returns the amount credited.
func (l *Land) SellGenerator(w Wallet, slot int) (float64, error) {
	current, err := l.Slot(slot)
	if err != nil {
		return 0, err
	}
	if current == nil {
		return 0, fmt.Errorf("%w: %d", ErrSlotEmpty, slot)
	}
	credit := l.SaleValue(current.Archetype())
	w.Credit(credit)
	l.slots[slot] = nil
	return credit, nil
}

// QueueRuntime adds one click of runtime to a non-continuous generator.
func (l *Land) QueueRuntime(slot int) error {
	current, err := l.Slot(slot)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%w: %d", ErrSlotEmpty, slot)
	}
	if current.Archetype().Continuous {
		return fmt.Errorf("%w: %s", ErrContinuousGenerator, current.Archetype().Name)
	}
	current.AddRuntime(current.Archetype().RuntimePerClick)
	return nil
}

// Tick burns queued runtime on every occupied slot.
func (l *Land) Tick(dt float64) {
	for _, g := range l.slots {
		if g != nil {
			g.Tick(dt)
		}
	}
}

// TotalSupply is the energy produced over dt by every producing generator.
func (l *Land) TotalSupply(dt float64) float64 {
	var supply float64
	for _, g := range l.slots {
		if g != nil && g.Producing() {
			supply += g.Archetype().WattsPerYear * dt
		}
	}
	return supply
}

// Upkeep is one year's upkeep for everything on the land at current inflation.
func (l *Land) Upkeep() float64 {
	inflation := l.market.InflationRate()
	var total float64
	for _, g := range l.slots {
		if g != nil {
			total += g.Archetype().UpkeepCost * inflation
		}
	}
	return total
}

// Occupied counts bound slots.
func (l *Land) Occupied() int {
	n := 0
	for _, g := range l.slots {
		if g != nil {
			n++
		}
	}
	return n
}

// Availability reports, per archetype, whether it can be bought in the current year.
func (l *Land) Availability() []bool {
	return l.catalog.Availability(l.market.CurrentYear())
}
