// Package websocket pushes live game state to browser clients.
//
// A central Hub tracks clients per session. Each connection gets a read pump,
// which only drains pings and close frames, and a write pump that forwards
// queued messages one JSON document per frame.
//
// Message Protocol:
//
// The server never reads commands from the socket. Outgoing messages look like:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12", "event": "tick", "data": {"steps": 5, ...}}
//
// Clients pick their session with the ?session= query parameter when the
// API server upgrades the connection.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	hub.BroadcastToSession(sessionID, state)
//
// Slow clients whose send buffer fills are dropped rather than blocking the
// simulation.
package websocket
