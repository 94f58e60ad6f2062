package engine

// Command actions recorded in the command history
const (
	ActionBuyLand       = "buy_land"
	ActionBuyGenerator  = "buy_generator"
	ActionSellGenerator = "sell_generator"
	ActionQueueRuntime  = "queue_runtime"
	ActionAdjustCharge  = "adjust_charge"
	ActionSetCharge     = "set_charge"
	ActionPause         = "pause"
	ActionResume        = "resume"
	ActionReset         = "reset"

	// Simulation limits
	DefaultStepSeconds = 0.1
	MinStepSeconds     = 0.001
	MaxStepSeconds     = 10
	MaxHistoryEntries  = 1000
)

// Messages are the player-facing texts a scenario can override.
type Messages struct {
	Welcome  string `yaml:"welcome" json:"welcome"`
	GameOver string `yaml:"game_over" json:"game_over"`
	Paused   string `yaml:"paused" json:"paused"`
	Resumed  string `yaml:"resumed" json:"resumed"`
}

// GameConfig is a complete scenario: world, land, player and the generator catalog.
type GameConfig struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	StepSeconds float64 `yaml:"step_seconds,omitempty" json:"step_seconds,omitempty"`

	World      WorldConfig  `yaml:"world" json:"world"`
	Land       LandConfig   `yaml:"land" json:"land"`
	Player     PlayerConfig `yaml:"player" json:"player"`
	Generators []Archetype  `yaml:"generators" json:"generators"`
	Messages   Messages     `yaml:"messages" json:"messages"`
}

// SlotView is one land slot as seen from outside the engine.
type SlotView struct {
	Index       int     `json:"index"`
	Empty       bool    `json:"empty"`
	ArchetypeID int     `json:"archetype_id"` // -1 when empty
	Name        string  `json:"name,omitempty"`
	Runtime     float64 `json:"runtime"`
	MaxRuntime  float64 `json:"max_runtime"`
	Producing   bool    `json:"producing"`
	Continuous  bool    `json:"continuous"`
	SaleValue   float64 `json:"sale_value"`
}

// ArchetypeView is a catalog entry with its current price and availability.
type ArchetypeView struct {
	ID        int       `json:"id"`
	Archetype Archetype `json:"archetype"`
	Price     float64   `json:"price"`
	Available bool      `json:"available"`
	Label     string    `json:"label"` // "* Year N *" until available
}

// GameState is a read-only snapshot of a running simulation.
type GameState struct {
	ConfigName string `json:"config_name"`
	Message    string `json:"message"`
	GameOver   bool   `json:"game_over"`
	Paused     bool   `json:"paused"`

	ElapsedSeconds float64 `json:"elapsed_seconds"`
	ElapsedYears   float64 `json:"elapsed_years"`
	Year           int     `json:"year"`         // 0-indexed
	DisplayYear    int     `json:"display_year"` // 1-indexed

	Population      float64 `json:"population"`
	DemandPerCapita float64 `json:"demand_per_capita"`
	DemandRate      float64 `json:"demand_rate"` // watt-years per second
	SupplyRate      float64 `json:"supply_rate"`
	Inflation       float64 `json:"inflation"`
	CompetitorRate  float64 `json:"competitor_rate"`

	Finances           float64  `json:"finances"`
	ChargeRate         int      `json:"charge_rate"`
	Reputation         float64  `json:"reputation"`
	ExpectedReputation float64  `json:"expected_reputation"`
	Satisfaction       float64  `json:"satisfaction"`               // clamped to [-1, 1]
	SatisfactionRaw    *float64 `json:"satisfaction_raw,omitempty"` // nil when unbounded

	LandSize      int             `json:"land_size"`
	SlotsPerLevel int             `json:"slots_per_level"`
	LandCost      float64         `json:"land_cost"`
	Upkeep        float64         `json:"upkeep"`
	Slots         []SlotView      `json:"slots"`
	Generators    []ArchetypeView `json:"generators"`

	TotalCommands   int `json:"total_commands"`
	CurrentCommands int `json:"current_commands"`
}

// CommandHistoryEntry records one player command and its outcome.
type CommandHistoryEntry struct {
	Action        string  `json:"action"`
	Slot          int     `json:"slot,omitempty"`
	Archetype     string  `json:"archetype,omitempty"`
	Amount        float64 `json:"amount,omitempty"`
	Success       bool    `json:"success"`
	Code          string  `json:"code,omitempty"`
	Finances      float64 `json:"finances"`
	Year          int     `json:"year"`
	Timestamp     int64   `json:"timestamp"`
	CommandNumber int     `json:"command_number"`
}

// AdvanceReport sums what happened over a multi-step advance.
type AdvanceReport struct {
	Steps          int     `json:"steps"`
	SecondsElapsed float64 `json:"seconds_elapsed"`
	Revenue        float64 `json:"revenue"`
	Upkeep         float64 `json:"upkeep"`
	YearsCrossed   int     `json:"years_crossed"`
	StartYear      int     `json:"start_year"`
	EndYear        int     `json:"end_year"`
	GameOver       bool    `json:"game_over"` // reached during this advance
}
