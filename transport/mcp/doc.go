// Package mcp exposes the power grid game to AI agents over the Model
// Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API (see package api) and the JSON response is rendered
// as plain text for the agent. It holds no game state of its own.
//
// MCP Tools:
//   - create_session, get_session, list_sessions: session management
//   - game_state: finances, reputation, demand, slots and the catalog
//   - advance: run the simulation forward by a number of seconds
//   - buy_land, buy_generator, sell_generator, queue_runtime
//   - adjust_charge, set_charge_rate: pricing
//   - set_paused, reset_game
//   - command_history: paginated command log
//   - list_configs, game_instructions
//
// Commands the game rejects come back as normal text naming the failure
// code (for example slot_occupied). Transport failures and unknown sessions
// come back as MCP error results.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
