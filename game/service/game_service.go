package service

import (
	"context"
	"time"

	"github.com/wricardo/mcp-training/powergrid/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Simulation
	Advance(ctx context.Context, sessionID string, seconds float64) (*AdvanceResult, error)
	AdvanceAll(ctx context.Context, seconds float64) ([]*AdvanceResult, error)

	// Player Commands
	BuyLand(ctx context.Context, sessionID string) (*CommandResult, error)
	BuyGenerator(ctx context.Context, sessionID string, slot int, generator string) (*CommandResult, error)
	SellGenerator(ctx context.Context, sessionID string, slot int) (*CommandResult, error)
	QueueRuntime(ctx context.Context, sessionID string, slot, clicks int) (*CommandResult, error)
	AdjustChargeRate(ctx context.Context, sessionID string, delta int) (*CommandResult, error)
	SetChargeRate(ctx context.Context, sessionID string, rate int) (*CommandResult, error)
	SetPaused(ctx context.Context, sessionID string, paused bool) (*CommandResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetCommandHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles scenario loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	ConfigID       string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
