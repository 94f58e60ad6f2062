package engine

import (
	"fmt"
	"math"
	"time"
)

// Engine provides the main interface for simulation operations
type Engine interface {
	// Simulation
	Tick(dt float64) TickReport
	Advance(seconds float64) AdvanceReport
	GetState() *GameState
	Reset()
	IsGameOver() bool
	IsPaused() bool

	// Commands
	BuyLand() error
	BuyGenerator(slot, archetypeID int) error
	SellGenerator(slot int) (float64, error)
	QueueRuntime(slot int) error
	AdjustChargeRate(delta int) int
	SetChargeRate(rate int) error
	SetPaused(paused bool)

	// Configuration
	GetConfig() *GameConfig
	Catalog() *Catalog

	// History
	GetCommandHistory() []CommandHistoryEntry
	GetCurrentCommands() []CommandHistoryEntry
	GetLastCommand() *CommandHistoryEntry
}

// GameEngine runs one independent simulation: a world, its land and its player.
// It is not safe for concurrent use; callers serialize access.
type GameEngine struct {
	config  *GameConfig
	catalog *Catalog
	world   *World
	land    *Land
	player  *Player

	step    float64
	message string

	history       []CommandHistoryEntry
	totalCommands int
	current       []CommandHistoryEntry
}

// NewEngine validates config and builds a simulation at year zero.
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	cfg := *config
	cfg.Generators = append([]Archetype(nil), config.Generators...)
	cfg.Land.InitialGenerators = append([]string(nil), config.Land.InitialGenerators...)
	ApplyDefaultMessages(&cfg.Messages)

	catalog, err := NewCatalog(cfg.Generators)
	if err != nil {
		return nil, err
	}
	world := NewWorld(cfg.World)
	land, err := NewLand(cfg.Land, catalog, world)
	if err != nil {
		return nil, err
	}

	step := cfg.StepSeconds
	if step == 0 {
		step = DefaultStepSeconds
	}

	return &GameEngine{
		config:  &cfg,
		catalog: catalog,
		world:   world,
		land:    land,
		player:  NewPlayer(cfg.Player, land, world),
		step:    step,
		message: cfg.Messages.Welcome,
	}, nil
}

// NewEngineWithDefaults creates an engine running the classic scenario.
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultGameConfig())
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return e
}

// Tick runs one step: world first, then land, then player.
// Nothing moves while paused or after game over.
func (e *GameEngine) Tick(dt float64) TickReport {
	if e.world.Paused() || e.player.GameOver() || !validDelta(dt) {
		return TickReport{}
	}
	e.world.Tick(dt)
	e.land.Tick(dt)
	report := e.player.Tick(dt)
	if report.GameOver {
		e.message = e.config.Messages.GameOver
	}
	return report
}

// Advance runs the simulation forward by seconds using fixed steps, stopping
// early on pause or game over.
func (e *GameEngine) Advance(seconds float64) AdvanceReport {
	report := AdvanceReport{StartYear: e.world.CurrentYear()}
	remaining := seconds
	if math.IsNaN(remaining) || math.IsInf(remaining, 0) {
		remaining = 0
	}
	for remaining > 1e-9 && !e.world.Paused() && !e.player.GameOver() {
		dt := math.Min(e.step, remaining)
		t := e.Tick(dt)
		remaining -= dt

		report.Steps++
		report.SecondsElapsed += dt
		report.Revenue += t.Revenue
		report.Upkeep += t.Upkeep
		report.YearsCrossed += t.YearsCrossed
		if t.GameOver {
			report.GameOver = true
		}
	}
	report.EndYear = e.world.CurrentYear()
	return report
}

// Reset restarts the simulation. Cumulative command history survives; the
// current segment is cleared. The paused flag is kept.
func (e *GameEngine) Reset() {
	e.world.Reset()
	e.land.Reset()
	e.player.Reset()
	e.message = e.config.Messages.Welcome

	e.current = nil
	e.record(CommandHistoryEntry{Action: ActionReset, Success: true})
	e.current = nil
}

func (e *GameEngine) IsGameOver() bool { return e.player.GameOver() }
func (e *GameEngine) IsPaused() bool   { return e.world.Paused() }

func (e *GameEngine) GetConfig() *GameConfig { return e.config }
func (e *GameEngine) Catalog() *Catalog      { return e.catalog }

// World, Land and Player expose the components for read-only inspection.
func (e *GameEngine) World() *World   { return e.world }
func (e *GameEngine) Land() *Land     { return e.land }
func (e *GameEngine) Player() *Player { return e.player }

// BuyLand purchases one more level of land.
func (e *GameEngine) BuyLand() error {
	cost := e.land.LandCost()
	err := e.guard()
	if err == nil {
		err = e.land.BuyLand(e.player)
	}
	e.record(CommandHistoryEntry{Action: ActionBuyLand, Amount: cost, Success: err == nil, Code: ReasonCode(err)})
	if err == nil {
		e.message = fmt.Sprintf("Bought land for $%.2f. You now have %d slots.", cost, e.land.SlotCount())
	}
	return err
}

// BuyGenerator puts a new generator of the given archetype into an empty slot.
func (e *GameEngine) BuyGenerator(slot, archetypeID int) error {
	entry := CommandHistoryEntry{Action: ActionBuyGenerator, Slot: slot}
	if a, err := e.catalog.Get(archetypeID); err == nil {
		entry.Archetype = a.Name
		entry.Amount = e.land.GeneratorPrice(a)
	}

	err := e.guard()
	if err == nil {
		err = e.land.BuyGenerator(e.player, slot, archetypeID)
	}
	entry.Success, entry.Code = err == nil, ReasonCode(err)
	e.record(entry)
	if err == nil {
		e.message = fmt.Sprintf("Bought a %s for $%.2f.", entry.Archetype, entry.Amount)
	}
	return err
}

// SellGenerator sells the generator in slot and returns the amount credited.
func (e *GameEngine) SellGenerator(slot int) (float64, error) {
	entry := CommandHistoryEntry{Action: ActionSellGenerator, Slot: slot}
	if g, err := e.land.Slot(slot); err == nil && g != nil {
		entry.Archetype = g.Archetype().Name
	}

	var credit float64
	err := e.guard()
	if err == nil {
		credit, err = e.land.SellGenerator(e.player, slot)
	}
	entry.Amount, entry.Success, entry.Code = credit, err == nil, ReasonCode(err)
	e.record(entry)
	if err == nil {
		e.message = fmt.Sprintf("Sold a %s for $%.2f.", entry.Archetype, credit)
	}
	return credit, err
}

// QueueRuntime clicks a non-continuous generator once.
func (e *GameEngine) QueueRuntime(slot int) error {
	entry := CommandHistoryEntry{Action: ActionQueueRuntime, Slot: slot}
	err := e.guard()
	if err == nil {
		err = e.land.QueueRuntime(slot)
	}
	if g, gerr := e.land.Slot(slot); gerr == nil && g != nil {
		entry.Archetype = g.Archetype().Name
		entry.Amount = g.Runtime()
	}
	entry.Success, entry.Code = err == nil, ReasonCode(err)
	e.record(entry)
	return err
}

// AdjustChargeRate moves the charge rate by delta (clamped to stay positive) and
// returns the new rate.
func (e *GameEngine) AdjustChargeRate(delta int) int {
	if e.player.GameOver() {
		e.record(CommandHistoryEntry{Action: ActionAdjustCharge, Amount: float64(delta), Code: ReasonCode(ErrGameOver)})
		return e.player.ChargeRate()
	}
	rate := e.player.AdjustChargeRate(delta)
	e.record(CommandHistoryEntry{Action: ActionAdjustCharge, Amount: float64(rate), Success: true})
	e.message = fmt.Sprintf("Charging $%d per watt-year.", rate)
	return rate
}

// SetChargeRate sets an absolute charge rate. Non-positive rates are rejected.
func (e *GameEngine) SetChargeRate(rate int) error {
	err := e.guard()
	if err == nil && !e.player.SetChargeRate(rate) {
		err = fmt.Errorf("charge rate must be positive, got %d", rate)
	}
	e.record(CommandHistoryEntry{Action: ActionSetCharge, Amount: float64(rate), Success: err == nil, Code: ReasonCode(err)})
	if err == nil {
		e.message = fmt.Sprintf("Charging $%d per watt-year.", rate)
	}
	return err
}

// SetPaused freezes or resumes the simulation.
func (e *GameEngine) SetPaused(paused bool) {
	e.world.SetPaused(paused)
	action, msg := ActionResume, e.config.Messages.Resumed
	if paused {
		action, msg = ActionPause, e.config.Messages.Paused
	}
	e.record(CommandHistoryEntry{Action: action, Success: true})
	e.message = msg
}

func (e *GameEngine) guard() error {
	if e.player.GameOver() {
		return ErrGameOver
	}
	return nil
}

func (e *GameEngine) record(entry CommandHistoryEntry) {
	e.totalCommands++
	entry.CommandNumber = e.totalCommands
	entry.Finances = e.player.Finances()
	entry.Year = e.world.CurrentYear()
	entry.Timestamp = time.Now().Unix()
	if !entry.Success && entry.Code != "" {
		e.message = fmt.Sprintf("Can't do that: %s", entry.Code)
	}

	e.history = append(e.history, entry)
	if len(e.history) > MaxHistoryEntries {
		e.history = e.history[len(e.history)-MaxHistoryEntries:]
	}
	e.current = append(e.current, entry)
	if len(e.current) > MaxHistoryEntries {
		e.current = e.current[len(e.current)-MaxHistoryEntries:]
	}
}

// GetCommandHistory returns the cumulative history, oldest first.
func (e *GameEngine) GetCommandHistory() []CommandHistoryEntry {
	out := make([]CommandHistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

// GetCurrentCommands returns commands issued since the last reset.
func (e *GameEngine) GetCurrentCommands() []CommandHistoryEntry {
	out := make([]CommandHistoryEntry, len(e.current))
	copy(out, e.current)
	return out
}

// GetLastCommand returns the most recent command, or nil if none.
func (e *GameEngine) GetLastCommand() *CommandHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}

// TotalCommands counts every command ever issued, including those trimmed from history.
func (e *GameEngine) TotalCommands() int {
	return e.totalCommands
}

// GetState builds a snapshot of the simulation.
func (e *GameEngine) GetState() *GameState {
	w, l, p := e.world, e.land, e.player

	state := &GameState{
		ConfigName: e.config.Name,
		Message:    e.message,
		GameOver:   p.GameOver(),
		Paused:     w.Paused(),

		ElapsedSeconds: w.ElapsedSeconds(),
		ElapsedYears:   w.ElapsedYears(),
		Year:           w.CurrentYear(),
		DisplayYear:    w.DisplayYear(),

		Population:      w.Population(),
		DemandPerCapita: w.DemandPerCapita(),
		DemandRate:      w.DemandTotal(),
		SupplyRate:      l.TotalSupply(1),
		Inflation:       w.InflationRate(),
		CompetitorRate:  w.CompetitorRate(),

		Finances:           p.Finances(),
		ChargeRate:         p.ChargeRate(),
		Reputation:         p.Reputation(),
		ExpectedReputation: p.ExpectedReputation(),
		Satisfaction:       p.SatisfactionClamped(),

		LandSize:      l.LandSize(),
		SlotsPerLevel: l.SlotsPerLevel(),
		LandCost:      l.LandCost(),
		Upkeep:        l.Upkeep(),

		TotalCommands:   e.totalCommands,
		CurrentCommands: len(e.current),
	}
	if raw := p.SatisfactionRaw(); !math.IsInf(raw, 0) && !math.IsNaN(raw) {
		state.SatisfactionRaw = &raw
	}

	state.Slots = make([]SlotView, l.SlotCount())
	for i := range state.Slots {
		g, _ := l.Slot(i)
		view := SlotView{Index: i, Empty: g == nil, ArchetypeID: -1}
		if g != nil {
			a := g.Archetype()
			view.ArchetypeID = g.ArchetypeID()
			view.Name = a.Name
			view.Runtime = g.Runtime()
			view.MaxRuntime = a.MaxRuntime
			view.Producing = g.Producing()
			view.Continuous = a.Continuous
			view.SaleValue = l.SaleValue(a)
		}
		state.Slots[i] = view
	}

	available := l.Availability()
	state.Generators = make([]ArchetypeView, e.catalog.Len())
	for i := range state.Generators {
		a, _ := e.catalog.Get(i)
		label := a.Name
		if !available[i] {
			label = fmt.Sprintf("* Year %d *", int(math.Ceil(a.YearAvailable))+1)
		}
		state.Generators[i] = ArchetypeView{
			ID:        i,
			Archetype: *a,
			Price:     l.GeneratorPrice(a),
			Available: available[i],
			Label:     label,
		}
	}

	return state
}
