package telemetry

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats describes one series
type Stats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary aggregates a run
type Summary struct {
	Rows       int     `json:"rows"`
	Sessions   int     `json:"sessions"`
	FinalYear  int     `json:"final_year"`
	GameOvers  int     `json:"game_overs"`
	Finances   Stats   `json:"finances"`
	Reputation Stats   `json:"reputation"`
	Supply     Stats   `json:"supply_rate"`
	Demand     Stats   `json:"demand_rate"`
	Coverage   float64 `json:"coverage"` // mean supply/demand over rows with demand
}

// Summarize computes statistics over recorded rows. An empty input gives a
// zero Summary.
func Summarize(records []YearRecord) Summary {
	var s Summary
	if len(records) == 0 {
		return s
	}

	n := len(records)
	finances := make([]float64, n)
	reputation := make([]float64, n)
	supply := make([]float64, n)
	demand := make([]float64, n)
	var coverage []float64
	sessions := make(map[string]bool)
	over := make(map[string]bool)

	for i, rec := range records {
		finances[i] = rec.Finances
		reputation[i] = rec.Reputation
		supply[i] = rec.SupplyRate
		demand[i] = rec.DemandRate
		if rec.DemandRate > 0 {
			coverage = append(coverage, rec.SupplyRate/rec.DemandRate)
		}
		sessions[rec.SessionID] = true
		if rec.GameOver {
			over[rec.SessionID] = true
		}
		if rec.Year > s.FinalYear {
			s.FinalYear = rec.Year
		}
	}

	s.Rows = n
	s.Sessions = len(sessions)
	s.GameOvers = len(over)
	s.Finances = describe(finances)
	s.Reputation = describe(reputation)
	s.Supply = describe(supply)
	s.Demand = describe(demand)
	if len(coverage) > 0 {
		s.Coverage = stat.Mean(coverage, nil)
	}
	return s
}

func describe(xs []float64) Stats {
	st := Stats{
		Mean: stat.Mean(xs, nil),
		Min:  floats.Min(xs),
		Max:  floats.Max(xs),
	}
	// The sample deviation of a single value is undefined
	if len(xs) > 1 {
		st.StdDev = stat.StdDev(xs, nil)
	}
	if math.IsNaN(st.StdDev) {
		st.StdDev = 0
	}
	return st
}
