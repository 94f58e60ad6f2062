package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"

	"github.com/wricardo/mcp-training/powergrid/game/engine"
	"github.com/wricardo/mcp-training/powergrid/game/service"
	"github.com/wricardo/mcp-training/powergrid/telemetry"
)

// Headless strategies
const (
	StrategyIdle   = "idle"   // never issues commands
	StrategyGreedy = "greedy" // fills slots with the best affordable generator
)

// SimulationOptions configures a headless run
type SimulationOptions struct {
	ConfigID   string
	Years      int
	Strategy   string
	ChargeRate int // 0 follows the competitor rate
}

// SimulationResult is the final state of a headless run
type SimulationResult struct {
	SessionID   string
	ConfigName  string
	YearsPlayed int
	Commands    int
	Rejected    int
	Final       *engine.GameState
}

// runSimulation plays one session a year at a time, applying the strategy at
// the start of each year and recording the state after it.
func runSimulation(ctx context.Context, svc service.GameService, recorder *telemetry.Recorder, opts SimulationOptions) (*SimulationResult, error) {
	if opts.Years <= 0 {
		return nil, fmt.Errorf("%w: years must be positive", service.ErrInvalidArgument)
	}
	if opts.Strategy != StrategyIdle && opts.Strategy != StrategyGreedy {
		return nil, fmt.Errorf("%w: unknown strategy %q", service.ErrInvalidArgument, opts.Strategy)
	}

	info, err := svc.CreateSession(ctx, opts.ConfigID)
	if err != nil {
		return nil, err
	}
	defer svc.DeleteSession(context.Background(), info.ID)

	secondsPerYear := info.GameConfig.World.SecondsPerYear
	result := &SimulationResult{SessionID: info.ID, ConfigName: info.ConfigName}
	state := info.GameState

	for year := 0; year < opts.Years && !state.GameOver; year++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if opts.Strategy == StrategyGreedy {
			issued, rejected, err := playGreedy(ctx, svc, info.ID, state, opts.ChargeRate)
			if err != nil {
				return nil, err
			}
			result.Commands += issued
			result.Rejected += rejected
		}

		if state, err = advanceYear(ctx, svc, info.ID, secondsPerYear); err != nil {
			return nil, err
		}
		if err := recorder.Observe(info.ID, state); err != nil {
			return nil, err
		}
		result.YearsPlayed++
	}

	result.Final = state
	return result, nil
}

// advanceYear runs one in-world year, split into chunks the service accepts
func advanceYear(ctx context.Context, svc service.GameService, sessionID string, secondsPerYear float64) (*engine.GameState, error) {
	var state *engine.GameState
	for remaining := secondsPerYear; remaining > 0; remaining -= service.MaxAdvanceSeconds {
		res, err := svc.Advance(ctx, sessionID, math.Min(remaining, service.MaxAdvanceSeconds))
		if err != nil {
			return nil, err
		}
		state = res.GameState
	}
	return state, nil
}

// playGreedy prices near the competitor, fills every empty slot with the
// most productive generator it can afford while keeping a year of upkeep in
// reserve, buys land when full and keeps click generators topped up.
func playGreedy(ctx context.Context, svc service.GameService, sessionID string, state *engine.GameState, fixedRate int) (issued, rejected int, err error) {
	// apply counts a command and moves to the state it returned
	apply := func(res *service.CommandResult, err error) (bool, error) {
		if err != nil {
			return false, err
		}
		issued++
		if !res.Success {
			rejected++
		}
		state = res.GameState
		return res.Success, nil
	}

	target := fixedRate
	if target <= 0 {
		target = int(math.Max(1, math.Floor(state.CompetitorRate)))
	}
	if state.ChargeRate != target {
		if _, err = apply(svc.SetChargeRate(ctx, sessionID, target)); err != nil {
			return issued, rejected, err
		}
	}

	for _, slot := range state.Slots {
		if !slot.Empty && !slot.Continuous && slot.Runtime < slot.MaxRuntime {
			if _, err = apply(svc.QueueRuntime(ctx, sessionID, slot.Index, service.MaxClicks)); err != nil {
				return issued, rejected, err
			}
		}
	}

	for {
		// Keep a year of upkeep in reserve
		budget := state.Finances - state.Upkeep
		empty := -1
		for _, slot := range state.Slots {
			if slot.Empty {
				empty = slot.Index
				break
			}
		}

		var ok bool
		if empty < 0 {
			if budget <= state.LandCost {
				break
			}
			ok, err = apply(svc.BuyLand(ctx, sessionID))
		} else {
			choice := bestAffordable(state.Generators, budget)
			if choice == nil {
				break
			}
			ok, err = apply(svc.BuyGenerator(ctx, sessionID, empty, choice.Archetype.Name))
		}
		if err != nil {
			return issued, rejected, err
		}
		if !ok {
			break
		}
	}

	return issued, rejected, nil
}

// bestAffordable picks the available continuous generator with the highest
// output whose price fits the budget
func bestAffordable(catalog []engine.ArchetypeView, budget float64) *engine.ArchetypeView {
	candidates := make([]engine.ArchetypeView, 0, len(catalog))
	for _, g := range catalog {
		if g.Available && g.Archetype.Continuous && g.Price < budget {
			candidates = append(candidates, g)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Archetype.WattsPerYear > candidates[j].Archetype.WattsPerYear
	})
	return &candidates[0]
}

func printSimulation(w io.Writer, result *SimulationResult, summary telemetry.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	final := result.Final
	fmt.Fprintf(tw, "Scenario:\t%s\n", result.ConfigName)
	fmt.Fprintf(tw, "Years played:\t%d\n", result.YearsPlayed)
	fmt.Fprintf(tw, "Commands:\t%d (%d rejected)\n", result.Commands, result.Rejected)
	if final != nil {
		fmt.Fprintf(tw, "Final year:\t%d\n", final.DisplayYear)
		fmt.Fprintf(tw, "Finances:\t$%.2f\n", final.Finances)
		fmt.Fprintf(tw, "Reputation:\t%.1f%%\n", final.Reputation*100)
		fmt.Fprintf(tw, "Land:\tlevel %d, %d slots\n", final.LandSize, len(final.Slots))
		fmt.Fprintf(tw, "Game over:\t%v\n", final.GameOver)
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Series\tmean\tstddev\tmin\tmax\n")
	for _, row := range []struct {
		name string
		s    telemetry.Stats
	}{
		{"finances", summary.Finances},
		{"reputation", summary.Reputation},
		{"supply", summary.Supply},
		{"demand", summary.Demand},
	} {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\n", row.name, row.s.Mean, row.s.StdDev, row.s.Min, row.s.Max)
	}
	fmt.Fprintf(tw, "coverage\t%.2f\n", summary.Coverage)
}
