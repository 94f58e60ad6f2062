// Package engine provides the core simulation for the power grid game.
//
// The engine package implements the economy including:
//   - World growth: population, demand, inflation and competitor pricing
//   - Land slots and the generators bound to them
//   - Player finances, charge rate and the reputation feedback loop
//   - Scenario validation
//
// Core Types:
//
// World derives its quantities from a Clock by exponential extrapolation.
// Land owns the slots and GeneratorInstances, which refer to immutable
// Archetypes held in a shared Catalog. Player settles revenue and upkeep each
// tick and moves reputation toward the level its pricing and supply earn.
// GameEngine composes the three and implements the Engine interface.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultGameConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	_ = gameEngine.QueueRuntime(0)
//	report := gameEngine.Advance(5)
//	state := gameEngine.GetState()
//
// Simulation Rules:
//
// Each tick advances the world, then the land, then the player, in that
// order. A paused engine does not tick. Reputation is kept in [0, 1]; once it
// reaches zero the game is over and only Reset resumes play. Failed commands
// return an error and leave the simulation untouched.
package engine
