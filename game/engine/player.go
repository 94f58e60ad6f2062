package engine

import "math"

// Bounds of the expected-reputation band the price controller targets.
const (
	ReputationRangeLow  = 0.25
	ReputationRangeHigh = 1.25
)

// PlayerConfig holds the player's starting position and feedback tuning.
type PlayerConfig struct {
	InitialBank       float64 `yaml:"initial_bank" json:"initial_bank"`
	InitialChargeRate int     `yaml:"initial_charge_rate" json:"initial_charge_rate"` // dollars per watt-year
	InitialReputation float64 `yaml:"initial_reputation" json:"initial_reputation"`

	// ReputationDelta is the base reputation change per second.
	ReputationDelta float64 `yaml:"reputation_delta" json:"reputation_delta"`
	// CompetitionDifferential is the half-width of the price ratio band mapped onto the expected reputation.
	CompetitionDifferential float64 `yaml:"competition_differential" json:"competition_differential"`
}

// SupplySource is the land as seen by the player.
type SupplySource interface {
	TotalSupply(dt float64) float64
	Upkeep() float64
}

// Demography is the world as seen by the player.
type Demography interface {
	DemandTotal() float64
	CompetitorRate() float64
	CurrentYear() int
}

// TickReport describes what one player tick did to the books.
type TickReport struct {
	Supply       float64 `json:"supply"`
	Demand       float64 `json:"demand"`
	Revenue      float64 `json:"revenue"`
	Upkeep       float64 `json:"upkeep"`
	YearsCrossed int     `json:"years_crossed"`
	GameOver     bool    `json:"game_over"` // reputation reached zero on this tick
}

// Player owns finances, the charge rate and reputation.
type Player struct {
	cfg    PlayerConfig
	supply SupplySource
	world  Demography

	finances   float64
	chargeRate int
	reputation float64
	yearCount  int
}

// NewPlayer builds a player in its reset state. cfg is assumed validated.
func NewPlayer(cfg PlayerConfig, supply SupplySource, world Demography) *Player {
	p := &Player{cfg: cfg, supply: supply, world: world}
	p.Reset()
	return p
}

// Reset restores the bank, charge rate, reputation and upkeep counter.
func (p *Player) Reset() {
	p.finances = p.cfg.InitialBank
	p.chargeRate = p.cfg.InitialChargeRate
	p.reputation = p.cfg.InitialReputation
	p.yearCount = 0
}

func (p *Player) Finances() float64   { return p.finances }
func (p *Player) ChargeRate() int     { return p.chargeRate }
func (p *Player) Reputation() float64 { return p.reputation }

// GameOver reports the terminal state: reputation has reached zero.
func (p *Player) GameOver() bool {
	return p.reputation <= 0
}

// CanAfford requires finances to stay strictly positive after paying cost.
func (p *Player) CanAfford(cost float64) bool {
	return p.finances-cost > 0
}

// Purchase debits cost if affordable. Either the full cost is paid or nothing changes.
func (p *Player) Purchase(cost float64) bool {
	if cost < 0 || math.IsNaN(cost) || !p.CanAfford(cost) {
		return false
	}
	p.finances -= cost
	return true
}

// Credit adds amount unconditionally.
func (p *Player) Credit(amount float64) {
	p.finances += amount
}

// SetChargeRate sets the price per watt-year. Non-positive rates are ignored.
func (p *Player) SetChargeRate(rate int) bool {
	if rate <= 0 {
		return false
	}
	p.chargeRate = rate
	return true
}

// AdjustChargeRate moves the price by delta, never below 1 and saturating
// at math.MaxInt.
func (p *Player) AdjustChargeRate(delta int) int {
	rate := p.chargeRate + delta
	if delta > 0 && p.chargeRate > math.MaxInt-delta {
		rate = math.MaxInt
	}
	if rate < 1 {
		rate = 1
	}
	p.chargeRate = rate
	return rate
}

// Tick settles revenue and upkeep for dt seconds and moves reputation.
// A player that has reached game over no longer changes.
func (p *Player) Tick(dt float64) TickReport {
	var report TickReport
	if p.GameOver() || !validDelta(dt) {
		return report
	}

	report.Supply = p.supply.TotalSupply(dt)
	report.Demand = p.world.DemandTotal() * dt
	report.Revenue = math.Min(report.Supply, report.Demand) * float64(p.chargeRate)

	if year := p.world.CurrentYear(); year > p.yearCount {
		report.YearsCrossed = year - p.yearCount
		report.Upkeep = p.supply.Upkeep() * float64(report.YearsCrossed)
		p.yearCount = year
	}

	p.finances += report.Revenue - report.Upkeep
	p.updateReputation(dt, report.Supply, report.Demand)
	report.GameOver = p.GameOver()
	return report
}

// ExpectedReputation is where the price controller pulls reputation, given the
// player's charge rate against the competition.
func (p *Player) ExpectedReputation() float64 {
	cd := p.cfg.CompetitionDifferential
	ratio := float64(p.chargeRate) / p.world.CompetitorRate()
	normalized := Clamp01(1 - (ratio-(1-cd))/(2*cd))
	return Lerp(ReputationRangeLow, ReputationRangeHigh, normalized)
}

func (p *Player) updateReputation(dt, supply, demand float64) {
	step := p.cfg.ReputationDelta
	var delta float64

	expected := p.ExpectedReputation()
	switch {
	case p.reputation < expected:
		delta += step
	case p.reputation > expected:
		delta -= step
	}

	// Only customers won by reputation count towards the demand that must be met.
	served := demand * (p.reputation + 1) / 2
	switch diff := supply - served; {
	case diff > 0:
		delta += 2 * step
	case diff < 0:
		delta -= 2 * step
	}

	p.reputation = Clamp01(p.reputation + delta*dt)
}

// SatisfactionRaw compares supply with demand per second: supply/demand when
// oversupplied, -demand/supply when undersupplied, 0 when equal.
func (p *Player) SatisfactionRaw() float64 {
	supply := p.supply.TotalSupply(1)
	demand := p.world.DemandTotal()
	switch {
	case supply > demand:
		return supply / demand
	case supply == demand:
		return 0
	default:
		return -demand / supply
	}
}

// SatisfactionClamped is SatisfactionRaw limited to [-1, 1].
func (p *Player) SatisfactionClamped() float64 {
	return Clamp(p.SatisfactionRaw(), -1, 1)
}
