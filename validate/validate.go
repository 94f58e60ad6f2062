// Command validate checks the scenario files in a directory (default
// "configs"). For each *.yaml, *.yml or *.json file it checks:
//   - YAML/JSON syntax and unknown keys
//   - the engine's own scenario rules (positive rates, sell rate range,
//     catalog entries, initial generators that exist and fit the land)
//   - playability: a generator is available in year one, the starting bank
//     can afford something, and the catalog unlocks in year order
//
// It prints a report and exits non-zero if any file is invalid.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/powergrid/game/config"
	"github.com/wricardo/mcp-training/powergrid/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Errors make the file invalid; Warnings and Info never do.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
	Info     []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single scenario file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	if err := checkKnownFields(data); err != nil {
		result.fail("Invalid scenario: %v", err)
		return result
	}

	cfg, err := config.Parse(data)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	checkPlayability(cfg, &result)

	catalog := make([]string, len(cfg.Generators))
	for i, g := range cfg.Generators {
		catalog[i] = g.Name
	}
	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", cfg.Name),
		fmt.Sprintf("✓ Year length: %gs", cfg.World.SecondsPerYear),
		fmt.Sprintf("✓ Bank: $%.0f, charge rate %d", cfg.Player.InitialBank, cfg.Player.InitialChargeRate),
		fmt.Sprintf("✓ Land: %d levels × %d slots", cfg.Land.InitialLandSize, cfg.Land.SlotsPerLevel),
		fmt.Sprintf("✓ Generators: %s", strings.Join(catalog, ", ")),
	)
	return result
}

// checkKnownFields decodes strictly so misspelled keys are reported rather
// than silently ignored.
func checkKnownFields(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg engine.GameConfig
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// checkPlayability reports scenarios that load but cannot be played well.
func checkPlayability(cfg *engine.GameConfig, result *ValidationResult) {
	var cheapest float64 = -1
	continuousAtStart := false
	for _, g := range cfg.Generators {
		if g.YearAvailable > 0 {
			continue
		}
		if cheapest < 0 || g.BaseCost < cheapest {
			cheapest = g.BaseCost
		}
		if g.Continuous {
			continuousAtStart = true
		}
	}

	if cheapest < 0 {
		result.fail("No generator is available in the first year")
	} else if cfg.Player.InitialBank-cheapest*cfg.World.BaseInflation <= 0 {
		result.fail("Initial bank $%.0f cannot afford the cheapest generator ($%.0f)",
			cfg.Player.InitialBank, cheapest*cfg.World.BaseInflation)
	}
	if !continuousAtStart {
		result.warn("No continuous generator in the first year; supply depends on clicks")
	}

	if !sort.SliceIsSorted(cfg.Generators, func(i, j int) bool {
		return cfg.Generators[i].YearAvailable < cfg.Generators[j].YearAvailable
	}) {
		result.warn("Generators are not listed in unlock order")
	}

	for _, g := range cfg.Generators {
		if !g.Continuous && g.RuntimePerClick == 0 {
			result.warn("%s is click-driven but runtime_per_click is 0, it can never run", g.Name)
		}
	}

	diff := cfg.Player.CompetitionDifferential
	ratio := float64(cfg.Player.InitialChargeRate) / cfg.World.BaseEnergyCost
	if ratio > 1+diff {
		result.warn("Initial charge rate %d is far above the competitor (%g); reputation starts falling",
			cfg.Player.InitialChargeRate, cfg.World.BaseEnergyCost)
	}
}

// findScenarios lists scenario files in dir, sorted by name.
func findScenarios(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && config.IsScenarioFile(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// report prints results and returns whether every file is valid.
func report(w io.Writer, results []ValidationResult) bool {
	allValid := true
	for _, result := range results {
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(w, "  ❌ "+err)
			}
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ⚠️  "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(w, "✅ All scenarios are valid!")
	} else {
		fmt.Fprintln(w, "❌ Some scenarios have errors")
	}
	return allValid
}

// main validates every scenario in the directory given as the first
// argument, or ./configs.
func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := findScenarios(configDir)
	if err != nil {
		fmt.Printf("Error finding scenario files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No scenario files in %s\n", configDir)
		os.Exit(1)
	}

	results := make([]ValidationResult, 0, len(files))
	for _, file := range files {
		results = append(results, validateConfig(file))
	}

	if !report(os.Stdout, results) {
		os.Exit(1)
	}
}
