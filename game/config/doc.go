// Package config provides scenario management for the power grid game.
//
// The config package handles:
//   - Loading scenarios from YAML (or JSON) files
//   - Merging scenario files over the embedded defaults
//   - Default scenario selection and discovery
//   - Saving scenarios back to disk as YAML
//
// Scenario Format:
//
// A scenario names the world growth parameters, the land the player starts
// with, the player's bank and reputation tuning, and the generator catalog.
// Files are decoded over defaults.yaml, so a scenario only lists what it
// changes:
//
//	name: quick
//	description: Years fly by
//	world:
//	  seconds_per_year: 1
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("hard")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// Every loaded scenario is validated with engine.ValidateGameConfig before it
// is cached; invalid files are skipped by ListConfigs and reported by
// LoadConfig as ErrInvalidConfig.
package config
