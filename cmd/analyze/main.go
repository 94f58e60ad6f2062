// Command analyze prints quick, human-readable economics for the scenario
// files in a configs directory: how the market grows, what each generator
// costs when it unlocks and how fast it pays for itself, and what land costs
// as the plot grows.
package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/wricardo/mcp-training/powergrid/game/config"
	"github.com/wricardo/mcp-training/powergrid/game/engine"
)

// Years at which the market is sampled
var marketYears = []int{0, 5, 10, 20, 40}

// How many land purchases the ladder shows
const landSteps = 5

// MarketPoint is the world at the start of a given year.
type MarketPoint struct {
	Year           int
	Population     float64
	Demand         float64 // watt-years per second
	Inflation      float64
	CompetitorRate float64
}

// GeneratorEconomics describes one catalog entry at the year it unlocks.
type GeneratorEconomics struct {
	Name      string
	Year      int
	Price     float64
	Output    float64 // revenue-bearing watt-years per in-world year
	Upkeep    float64 // at the unlock year's inflation
	Payback   float64 // years at the competitor's rate; +Inf when it never pays
	BreakEven int     // lowest whole charge rate that covers upkeep
	Coverage  float64 // share of that year's demand one unit covers
}

// Analysis is the full report for one scenario.
type Analysis struct {
	File       string
	Name       string
	YearLength float64
	Bank       float64
	Slots      int
	Market     []MarketPoint
	Generators []GeneratorEconomics
	LandLadder []float64
}

func marketAt(w engine.WorldConfig, year int) MarketPoint {
	y := float64(year)
	inflation := engine.Extrapolate(w.BaseInflation, w.InflationGrowthRate/100, y)
	population := engine.Extrapolate(w.InitialPopulation, w.PopulationGrowthRate/100, y)
	perPerson := engine.Extrapolate(w.InitialDemandPerPerson, w.DemandGrowthRate/100, y)
	return MarketPoint{
		Year:           year,
		Population:     population,
		Demand:         population * perPerson,
		Inflation:      inflation,
		CompetitorRate: engine.Extrapolate(w.BaseEnergyCost, w.CompetitionGrowthRate/100, y) * inflation,
	}
}

func generatorEconomics(cfg *engine.GameConfig, a engine.Archetype) GeneratorEconomics {
	year := int(math.Ceil(a.YearAvailable))
	m := marketAt(cfg.World, year)

	// Click generators only earn while cranked; assume they are kept running.
	output := a.WattsPerYear * cfg.World.SecondsPerYear
	upkeep := a.UpkeepCost * m.Inflation
	profit := output*m.CompetitorRate - upkeep

	payback := math.Inf(1)
	if profit > 0 {
		payback = a.BaseCost * m.Inflation / profit
	}

	return GeneratorEconomics{
		Name:      a.Name,
		Year:      year,
		Price:     a.BaseCost * m.Inflation,
		Output:    output,
		Upkeep:    upkeep,
		Payback:   payback,
		BreakEven: int(math.Max(1, math.Ceil(upkeep/output))),
		Coverage:  a.WattsPerYear / m.Demand,
	}
}

func analyzeConfig(path string) (*Analysis, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		File:       filepath.Base(path),
		Name:       cfg.Name,
		YearLength: cfg.World.SecondsPerYear,
		Bank:       cfg.Player.InitialBank,
		Slots:      cfg.Land.InitialLandSize * cfg.Land.SlotsPerLevel,
	}

	for _, year := range marketYears {
		a.Market = append(a.Market, marketAt(cfg.World, year))
	}

	for _, g := range cfg.Generators {
		a.Generators = append(a.Generators, generatorEconomics(cfg, g))
	}
	sort.SliceStable(a.Generators, func(i, j int) bool {
		return a.Generators[i].Year < a.Generators[j].Year
	})

	// Land is priced from the current size, so the ladder climbs one level per purchase.
	base := cfg.Land.BaseLandCost * cfg.Land.LandCostMultiplier * cfg.World.BaseInflation
	for size := cfg.Land.InitialLandSize; size < cfg.Land.InitialLandSize+landSteps; size++ {
		a.LandLadder = append(a.LandLadder, base*float64(size))
	}

	return a, nil
}

func formatPayback(years float64) string {
	if math.IsInf(years, 1) {
		return "never"
	}
	return fmt.Sprintf("%.2f yr", years)
}

func printAnalysis(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Year Length: %gs\n", a.YearLength)
	fmt.Fprintf(w, "Initial Bank: $%.0f\n", a.Bank)
	fmt.Fprintf(w, "Initial Slots: %d\n", a.Slots)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nYear\tPopulation\tDemand/s\tInflation\tCompetitor")
	for _, m := range a.Market {
		fmt.Fprintf(tw, "%d\t%.0f\t%.1f\t%.2f\t$%.2f\n", m.Year+1, m.Population, m.Demand, m.Inflation, m.CompetitorRate)
	}
	tw.Flush()

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nGenerator\tUnlocks\tPrice\tUpkeep\tPayback\tBreak-even rate\tDemand share")
	for _, g := range a.Generators {
		fmt.Fprintf(tw, "%s\tyear %d\t$%.0f\t$%.0f\t%s\t%d\t%.1f%%\n",
			g.Name, g.Year+1, g.Price, g.Upkeep, formatPayback(g.Payback), g.BreakEven, g.Coverage*100)
	}
	tw.Flush()

	fmt.Fprint(w, "\nLand ladder:")
	for _, cost := range a.LandLadder {
		fmt.Fprintf(w, " $%.0f", cost)
	}
	fmt.Fprintln(w)

	var never []string
	for _, g := range a.Generators {
		if math.IsInf(g.Payback, 1) {
			never = append(never, g.Name)
		}
	}
	if len(never) > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %v never pay back at the competitor's rate\n", never)
	} else {
		fmt.Fprintln(w, "✅ Every generator pays back at the competitor's rate")
	}
}

func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	entries, err := os.ReadDir(configDir)
	if err != nil {
		fmt.Printf("Error reading %s: %v\n", configDir, err)
		os.Exit(1)
	}

	for _, e := range entries {
		if e.IsDir() || !config.IsScenarioFile(e.Name()) {
			continue
		}
		fmt.Printf("\n=== Analyzing %s ===\n", e.Name())
		analysis, err := analyzeConfig(filepath.Join(configDir, e.Name()))
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printAnalysis(os.Stdout, analysis)
	}
}
