// Package runner drives sessions in real time.
//
// The engine holds no timer of its own. A Runner ticks on a time.Ticker and
// calls AdvanceAll on the game service with the elapsed interval, then hands
// the results to its listeners (the WebSocket hub and the telemetry
// recorder in the server binary).
package runner
