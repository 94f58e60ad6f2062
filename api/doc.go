// Package api exposes the power grid game over a JSON REST API.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions                  create ({"config_id": "classic"}, body optional)
//   - GET    /api/sessions                  list (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/{id}             session info with state and scenario
//   - DELETE /api/sessions/{id}             drop a session
//
// Game:
//   - GET    /api/sessions/{id}/state                      current GameState
//   - POST   /api/sessions/{id}/advance                    {"seconds": 10}
//   - POST   /api/sessions/{id}/land                       buy one land level
//   - POST   /api/sessions/{id}/generators                 {"slot": 1, "generator": "Windmill"}
//   - DELETE /api/sessions/{id}/generators/{slot}          sell
//   - POST   /api/sessions/{id}/generators/{slot}/runtime  {"clicks": 5}
//   - POST   /api/sessions/{id}/charge-rate                {"delta": 1} or {"rate": 4}
//   - POST   /api/sessions/{id}/pause, /resume
//   - POST   /api/sessions/{id}/reset
//   - GET    /api/sessions/{id}/history                    ?page=&limit=&order=
//
// Scenarios:
//   - GET  /api/configs         list
//   - GET  /api/configs/{name}  full scenario
//   - POST /api/configs         save a scenario (validated first)
//
// Also GET /api/health and GET /ws?session={id} for live updates.
//
// Command results:
//
// A command the game refuses still answers 200 with success false and a
// reason code, so agents can read the state that explains it:
//
//	{"success": false, "code": "insufficient_funds", "message": "...", "game_state": {...}}
//
// Errors:
//
// Unknown sessions or scenarios answer 404, malformed requests 400, anything
// else 500, always as {"error": "..."}.
package api
