// Package service provides the business logic layer for the power grid game.
//
// The service package implements:
//   - Multi-session game management
//   - Scenario loading through a ConfigManager
//   - Player commands (land, generators, runtime, charge rate, pause)
//   - Advancing simulations, one session at a time or all at once
//   - Paginated command history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager loads, lists and saves scenarios.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and
// the engine. Each session owns its own engine, and a single service-wide
// lock serializes every engine call, so engines never see concurrent access.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.BuyGenerator(ctx, info.ID, 1, "Windmill")
//	adv, err := gameService.Advance(ctx, info.ID, 10)
//
// Results:
//
// Commands that the game rejects are not Go errors. They come back as a
// CommandResult with Success false and a machine-friendly Code such as
// "insufficient_funds". Errors are reserved for unknown sessions and bad
// arguments.
package service
