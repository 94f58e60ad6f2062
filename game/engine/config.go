package engine

import (
	"fmt"
	"math"
	"strings"
)

// Default messages used when a scenario leaves them blank
const (
	DefaultWelcomeMessage  = "Welcome! Keep the lights on and the customers happy."
	DefaultGameOverMessage = "Your reputation is gone. Game over!"
	DefaultPausedMessage   = "Paused"
	DefaultResumedMessage  = "Resumed"
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// ValidateGameConfig checks a scenario before any simulation is built from it.
// Every error wraps ErrInvalidConfig.
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return invalidf("config is nil")
	}
	if strings.TrimSpace(config.Name) == "" {
		return invalidf("name is required")
	}
	if config.StepSeconds != 0 && (config.StepSeconds < MinStepSeconds || config.StepSeconds > MaxStepSeconds) {
		return invalidf("step_seconds must be between %v and %v, got %v", MinStepSeconds, MaxStepSeconds, config.StepSeconds)
	}

	if err := validateWorld(config.World); err != nil {
		return err
	}
	if err := validateLand(config.Land); err != nil {
		return err
	}
	if err := validatePlayer(config.Player); err != nil {
		return err
	}

	catalog, err := NewCatalog(config.Generators)
	if err != nil {
		return err
	}
	for _, name := range config.Land.InitialGenerators {
		if name == "" {
			continue
		}
		if _, ok := catalog.Lookup(name); !ok {
			return invalidf("initial generator %q is not in the catalog", name)
		}
	}

	return nil
}

func validateWorld(w WorldConfig) error {
	if !(w.InitialPopulation > 0) {
		return invalidf("world.initial_population must be positive, got %v", w.InitialPopulation)
	}
	if !(w.PopulationGrowthRate > 0) {
		return invalidf("world.population_growth_rate must be positive, got %v", w.PopulationGrowthRate)
	}
	if !(w.InitialDemandPerPerson > 0) {
		return invalidf("world.initial_demand_per_person must be positive, got %v", w.InitialDemandPerPerson)
	}
	if !(w.DemandGrowthRate > 0) {
		return invalidf("world.demand_growth_rate must be positive, got %v", w.DemandGrowthRate)
	}
	if !(w.BaseInflation >= 1) {
		return invalidf("world.base_inflation must be at least 1, got %v", w.BaseInflation)
	}
	if !(w.InflationGrowthRate > 0) {
		return invalidf("world.inflation_growth_rate must be positive, got %v", w.InflationGrowthRate)
	}
	if !(w.BaseEnergyCost > 0) {
		return invalidf("world.base_energy_cost must be positive, got %v", w.BaseEnergyCost)
	}
	if math.IsNaN(w.CompetitionGrowthRate) || math.IsInf(w.CompetitionGrowthRate, 0) {
		return invalidf("world.competition_growth_rate must be finite")
	}
	if !(w.SecondsPerYear > 0) {
		return invalidf("world.seconds_per_year must be positive, got %v", w.SecondsPerYear)
	}
	return nil
}

func validateLand(l LandConfig) error {
	if !(l.BaseLandCost > 0) {
		return invalidf("land.base_land_cost must be positive, got %v", l.BaseLandCost)
	}
	if l.InitialLandSize < 0 {
		return invalidf("land.initial_land_size must not be negative, got %d", l.InitialLandSize)
	}
	if !(l.LandCostMultiplier > 1) {
		return invalidf("land.land_cost_multiplier must be greater than 1, got %v", l.LandCostMultiplier)
	}
	if l.SlotsPerLevel <= 0 {
		return invalidf("land.slots_per_level must be positive, got %d", l.SlotsPerLevel)
	}
	if !(l.GeneratorSellRate >= 0 && l.GeneratorSellRate <= 100) {
		return invalidf("land.generator_sell_rate must be between 0 and 100, got %v", l.GeneratorSellRate)
	}
	if capacity := l.InitialLandSize * l.SlotsPerLevel; len(l.InitialGenerators) > capacity {
		return invalidf("land.initial_generators: %d generators do not fit on %d initial slots", len(l.InitialGenerators), capacity)
	}
	return nil
}

func validatePlayer(p PlayerConfig) error {
	if !(p.InitialBank >= 0) {
		return invalidf("player.initial_bank must not be negative, got %v", p.InitialBank)
	}
	if p.InitialChargeRate <= 0 {
		return invalidf("player.initial_charge_rate must be positive, got %d", p.InitialChargeRate)
	}
	if !(p.InitialReputation > 0 && p.InitialReputation <= 1) {
		return invalidf("player.initial_reputation must be in (0, 1], got %v", p.InitialReputation)
	}
	if !(p.ReputationDelta > 0) {
		return invalidf("player.reputation_delta must be positive, got %v", p.ReputationDelta)
	}
	if !(p.CompetitionDifferential > 0) {
		return invalidf("player.competition_differential must be positive, got %v", p.CompetitionDifferential)
	}
	return nil
}

// ApplyDefaultMessages fills blank messages with the built-in texts.
func ApplyDefaultMessages(m *Messages) {
	if m.Welcome == "" {
		m.Welcome = DefaultWelcomeMessage
	}
	if m.GameOver == "" {
		m.GameOver = DefaultGameOverMessage
	}
	if m.Paused == "" {
		m.Paused = DefaultPausedMessage
	}
	if m.Resumed == "" {
		m.Resumed = DefaultResumedMessage
	}
}

// DefaultGameConfig returns the classic scenario: the numbers the game originally shipped with.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "Start with a hand crank on a small plot and grow with the town.",
		World: WorldConfig{
			InitialPopulation:      10000,
			PopulationGrowthRate:   1.68,
			InitialDemandPerPerson: 0.015,
			DemandGrowthRate:       0.5,
			BaseInflation:          1,
			InflationGrowthRate:    1,
			BaseEnergyCost:         25,
			CompetitionGrowthRate:  -5,
			SecondsPerYear:         5,
		},
		Land: LandConfig{
			BaseLandCost:       10,
			InitialLandSize:    2,
			LandCostMultiplier: 1.5,
			SlotsPerLevel:      DefaultSlotsPerLevel,
			GeneratorSellRate:  65,
			InitialGenerators:  []string{"Hand Crank"},
		},
		Player: PlayerConfig{
			InitialBank:             10000,
			InitialChargeRate:       1,
			InitialReputation:       0.95,
			ReputationDelta:         0.02,
			CompetitionDifferential: 15,
		},
		Generators: []Archetype{
			{Name: "Hand Crank", BaseCost: 10, UpkeepCost: 1, OperationalCost: 0.25, WattsPerYear: 2, RuntimePerClick: 1, MaxRuntime: 30},
			{Name: "Windmill", BaseCost: 250, UpkeepCost: 10, WattsPerYear: 40, Continuous: true},
			{Name: "Coal Plant", YearAvailable: 5, BaseCost: 2500, UpkeepCost: 150, WattsPerYear: 600, Continuous: true},
			{Name: "Solar Farm", YearAvailable: 15, BaseCost: 12000, UpkeepCost: 200, WattsPerYear: 2500, Continuous: true},
			{Name: "Fusion Reactor", YearAvailable: 40, BaseCost: 150000, UpkeepCost: 5000, WattsPerYear: 40000, Continuous: true},
		},
		Messages: Messages{
			Welcome:  DefaultWelcomeMessage,
			GameOver: DefaultGameOverMessage,
			Paused:   DefaultPausedMessage,
			Resumed:  DefaultResumedMessage,
		},
	}
}
