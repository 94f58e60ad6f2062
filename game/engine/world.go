package engine

// WorldConfig holds the principals and growth rates of the world model.
// Growth rates are percentages per in-world year.
type WorldConfig struct {
	InitialPopulation      float64 `yaml:"initial_population" json:"initial_population"`
	PopulationGrowthRate   float64 `yaml:"population_growth_rate" json:"population_growth_rate"`
	InitialDemandPerPerson float64 `yaml:"initial_demand_per_person" json:"initial_demand_per_person"` // W / person / year
	DemandGrowthRate       float64 `yaml:"demand_growth_rate" json:"demand_growth_rate"`
	BaseInflation          float64 `yaml:"base_inflation" json:"base_inflation"`
	InflationGrowthRate    float64 `yaml:"inflation_growth_rate" json:"inflation_growth_rate"`
	BaseEnergyCost         float64 `yaml:"base_energy_cost" json:"base_energy_cost"`               // competitor price per watt-year
	CompetitionGrowthRate  float64 `yaml:"competition_growth_rate" json:"competition_growth_rate"` // usually negative
	SecondsPerYear         float64 `yaml:"seconds_per_year" json:"seconds_per_year"`
}

// World derives population, demand, inflation and competitor pricing from elapsed years.
type World struct {
	cfg   WorldConfig
	clock *Clock

	population      float64
	demandPerCapita float64
	inflation       float64
	competitorPrice float64
}

// NewWorld builds a world at year zero. cfg is assumed validated.
func NewWorld(cfg WorldConfig) *World {
	w := &World{cfg: cfg, clock: NewClock(cfg.SecondsPerYear)}
	w.recompute()
	return w
}

// Tick advances the clock by dt and recomputes the derived quantities.
// While paused nothing changes and Tick reports false.
func (w *World) Tick(dt float64) bool {
	if !w.clock.Advance(dt) {
		return false
	}
	w.recompute()
	return true
}

func (w *World) recompute() {
	years := w.clock.Years()
	w.population = Extrapolate(w.cfg.InitialPopulation, w.cfg.PopulationGrowthRate/100, years)
	w.demandPerCapita = Extrapolate(w.cfg.InitialDemandPerPerson, w.cfg.DemandGrowthRate/100, years)
	w.inflation = Extrapolate(w.cfg.BaseInflation, w.cfg.InflationGrowthRate/100, years)
	w.competitorPrice = Extrapolate(w.cfg.BaseEnergyCost, w.cfg.CompetitionGrowthRate/100, years)
}

// Reset returns to year zero without touching the paused flag.
func (w *World) Reset() {
	w.clock.Reset()
	w.recompute()
}

func (w *World) Population() float64      { return w.population }
func (w *World) DemandPerCapita() float64 { return w.demandPerCapita }
func (w *World) InflationRate() float64   { return w.inflation }

// DemandTotal is the demand of the whole population in watt-years per year.
func (w *World) DemandTotal() float64 {
	return w.population * w.demandPerCapita
}

// CompetitorRate is what the competition charges per watt-year, in inflated dollars.
func (w *World) CompetitorRate() float64 {
	return w.competitorPrice * w.inflation
}

func (w *World) ElapsedSeconds() float64 { return w.clock.Elapsed() }
func (w *World) ElapsedYears() float64   { return w.clock.Years() }
func (w *World) CurrentYear() int        { return w.clock.CurrentYear() }
func (w *World) DisplayYear() int        { return w.clock.DisplayYear() }
func (w *World) Paused() bool            { return w.clock.Paused() }

// SetPaused freezes time. Derived values keep their last computed values.
func (w *World) SetPaused(paused bool) {
	w.clock.SetPaused(paused)
}
