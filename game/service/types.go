package service

import (
	"time"

	"github.com/wricardo/mcp-training/powergrid/game/engine"
)

// Limits applied to a single request
const (
	MaxAdvanceSeconds = 600.0
	MaxClicks         = 50
)

// Event types reported in results
const (
	EventYearPassed    = "year_passed"
	EventUpkeepCharged = "upkeep_charged"
	EventGameOver      = "game_over"
	EventLandPurchased = "land_purchased"
	EventPurchase      = "purchase"
	EventSale          = "sale"
	EventRuntimeQueued = "runtime_queued"
	EventChargeRate    = "charge_rate"
	EventPaused        = "paused"
	EventResumed       = "resumed"
	EventReset         = "reset"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// CommandResult contains the outcome of one player command
type CommandResult struct {
	Success   bool              `json:"success"`
	Code      string            `json:"code,omitempty"` // machine-friendly failure reason
	Message   string            `json:"message"`
	Amount    float64           `json:"amount,omitempty"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`

	// Clicks applied by a multi-click queue_runtime request
	ClicksApplied int  `json:"clicks_applied,omitempty"`
	Truncated     bool `json:"truncated,omitempty"`
}

// AdvanceResult contains the outcome of running a session forward
type AdvanceResult struct {
	SessionID        string               `json:"session_id"`
	RequestedSeconds float64              `json:"requested_seconds"`
	Truncated        bool                 `json:"truncated,omitempty"`
	Limit            float64              `json:"limit,omitempty"`
	Report           engine.AdvanceReport `json:"report"`
	GameState        *engine.GameState    `json:"game_state"`
	Events           []GameEvent          `json:"events,omitempty"`
}

// GameEvent represents something notable that happened in a session
type GameEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Year      int       `json:"year"`
	Amount    float64   `json:"amount,omitempty"`
}

// HistoryOptions configures command history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated command history
type HistoryResponse struct {
	Commands      []engine.CommandHistoryEntry `json:"commands"`
	TotalCommands int                          `json:"total_commands"`
	Page          int                          `json:"page"`
	PageSize      int                          `json:"page_size"`
	TotalPages    int                          `json:"total_pages"`
	HasNext       bool                         `json:"has_next"`
	HasPrevious   bool                         `json:"has_previous"`
}

// ConfigInfo provides information about a scenario
type ConfigInfo struct {
	Filename       string  `json:"filename"`
	ConfigID       string  `json:"config_id"` // The identifier to use for session creation
	Name           string  `json:"name"`      // Display name
	Description    string  `json:"description"`
	SecondsPerYear float64 `json:"seconds_per_year"`
	InitialBank    float64 `json:"initial_bank"`
	Generators     int     `json:"generators"`
	InitialSlots   int     `json:"initial_slots"`
}
