package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/powergrid/game/engine"
)

// ErrInvalidArgument is returned for requests that fail basic validation
var ErrInvalidArgument = errors.New("invalid argument")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	now      func() time.Time
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		now:      time.Now,
	}
}

// getConfigID returns the config_id for a given scenario name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	configID := sess.ConfigID
	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sess.ConfigID = configName
	if sess.ConfigID == "" {
		sess.ConfigID = s.getConfigID(config.Name)
	}

	return s.sessionInfo(sess), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	// touch writes LastAccessedAt, which readers of other sessions see
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Advance runs one session forward by the given number of seconds
func (s *gameServiceImpl) Advance(ctx context.Context, sessionID string, seconds float64) (*AdvanceResult, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return nil, fmt.Errorf("%w: seconds must be a positive number, got %v", ErrInvalidArgument, seconds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}

	result := &AdvanceResult{SessionID: sess.ID, RequestedSeconds: seconds}
	if seconds > MaxAdvanceSeconds {
		result.Truncated = true
		result.Limit = MaxAdvanceSeconds
		seconds = MaxAdvanceSeconds
	}
	s.runAdvance(sess, seconds, result)
	return result, nil
}

// AdvanceAll moves every running session forward. Paused and finished
// sessions are skipped, and idle timers are left untouched.
func (s *gameServiceImpl) AdvanceAll(ctx context.Context, seconds float64) ([]*AdvanceResult, error) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return nil, fmt.Errorf("%w: seconds must be a positive number, got %v", ErrInvalidArgument, seconds)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var results []*AdvanceResult
	for _, sess := range s.sessions.List() {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if sess.Engine.IsPaused() || sess.Engine.IsGameOver() {
			continue
		}
		result := &AdvanceResult{SessionID: sess.ID, RequestedSeconds: seconds}
		s.runAdvance(sess, seconds, result)
		results = append(results, result)
	}
	return results, nil
}

func (s *gameServiceImpl) runAdvance(sess *Session, seconds float64, result *AdvanceResult) {
	report := sess.Engine.Advance(seconds)
	state := sess.Engine.GetState()

	result.Report = report
	result.GameState = state

	if report.YearsCrossed > 0 {
		result.Events = append(result.Events, s.newEvent(EventYearPassed,
			fmt.Sprintf("Year %d began", state.DisplayYear), state.Year, float64(report.YearsCrossed)))
	}
	if report.Upkeep > 0 {
		result.Events = append(result.Events, s.newEvent(EventUpkeepCharged,
			fmt.Sprintf("Paid $%.2f in upkeep", report.Upkeep), state.Year, report.Upkeep))
	}
	if report.GameOver {
		result.Events = append(result.Events, s.newEvent(EventGameOver, state.Message, state.Year, state.Finances))
		log.Printf("[ADVANCE] session %s: game over in year %d", sess.ID, state.DisplayYear)
	}
}

// BuyLand purchases one more land level
func (s *gameServiceImpl) BuyLand(ctx context.Context, sessionID string) (*CommandResult, error) {
	return s.command(sessionID, func(sess *Session) *CommandResult {
		cost := sess.Engine.Land().LandCost()
		err := sess.Engine.BuyLand()
		result := s.commandResult(sess, err)
		if err == nil {
			result.Amount = cost
			result.Events = append(result.Events, s.newEvent(EventLandPurchased,
				result.Message, result.GameState.Year, cost))
		}
		return result
	})
}

// BuyGenerator buys a generator into slot. The generator is named either by
// catalog index or by case-insensitive name.
func (s *gameServiceImpl) BuyGenerator(ctx context.Context, sessionID string, slot int, generator string) (*CommandResult, error) {
	return s.command(sessionID, func(sess *Session) *CommandResult {
		id := resolveGenerator(sess.Engine.Catalog(), generator)
		err := sess.Engine.BuyGenerator(slot, id)
		result := s.commandResult(sess, err)
		if err == nil {
			if last := sess.Engine.GetLastCommand(); last != nil {
				result.Amount = last.Amount
			}
			result.Events = append(result.Events, s.newEvent(EventPurchase,
				result.Message, result.GameState.Year, result.Amount))
		}
		return result
	})
}

// SellGenerator sells whatever sits in slot
func (s *gameServiceImpl) SellGenerator(ctx context.Context, sessionID string, slot int) (*CommandResult, error) {
	return s.command(sessionID, func(sess *Session) *CommandResult {
		credit, err := sess.Engine.SellGenerator(slot)
		result := s.commandResult(sess, err)
		if err == nil {
			result.Amount = credit
			result.Events = append(result.Events, s.newEvent(EventSale,
				result.Message, result.GameState.Year, credit))
		}
		return result
	})
}

// QueueRuntime clicks a manual generator up to clicks times, stopping at the
// first rejected click
func (s *gameServiceImpl) QueueRuntime(ctx context.Context, sessionID string, slot, clicks int) (*CommandResult, error) {
	if clicks < 1 {
		clicks = 1
	}
	truncated := false
	if clicks > MaxClicks {
		clicks = MaxClicks
		truncated = true
	}

	return s.command(sessionID, func(sess *Session) *CommandResult {
		applied := 0
		var err error
		for applied < clicks {
			if err = sess.Engine.QueueRuntime(slot); err != nil {
				break
			}
			applied++
		}
		// A partial run still counts as success
		if applied > 0 {
			err = nil
		}

		result := s.commandResult(sess, err)
		result.ClicksApplied = applied
		result.Truncated = truncated
		if err == nil {
			if last := sess.Engine.GetLastCommand(); last != nil {
				result.Amount = last.Amount
			}
			result.Message = fmt.Sprintf("Queued %d click(s); runtime is now %.2fs", applied, result.Amount)
			result.Events = append(result.Events, s.newEvent(EventRuntimeQueued,
				result.Message, result.GameState.Year, result.Amount))
		}
		return result
	})
}

// AdjustChargeRate nudges the charge rate by delta
func (s *gameServiceImpl) AdjustChargeRate(ctx context.Context, sessionID string, delta int) (*CommandResult, error) {
	return s.command(sessionID, func(sess *Session) *CommandResult {
		var err error
		if sess.Engine.IsGameOver() {
			err = engine.ErrGameOver
		}
		rate := sess.Engine.AdjustChargeRate(delta)
		result := s.commandResult(sess, err)
		result.Amount = float64(rate)
		if err == nil {
			result.Events = append(result.Events, s.newEvent(EventChargeRate,
				result.Message, result.GameState.Year, float64(rate)))
		}
		return result
	})
}

// SetChargeRate sets an absolute charge rate
func (s *gameServiceImpl) SetChargeRate(ctx context.Context, sessionID string, rate int) (*CommandResult, error) {
	return s.command(sessionID, func(sess *Session) *CommandResult {
		err := sess.Engine.SetChargeRate(rate)
		result := s.commandResult(sess, err)
		result.Amount = float64(sess.Engine.Player().ChargeRate())
		if err == nil {
			result.Events = append(result.Events, s.newEvent(EventChargeRate,
				result.Message, result.GameState.Year, result.Amount))
		}
		return result
	})
}

// SetPaused freezes or resumes a session
func (s *gameServiceImpl) SetPaused(ctx context.Context, sessionID string, paused bool) (*CommandResult, error) {
	return s.command(sessionID, func(sess *Session) *CommandResult {
		sess.Engine.SetPaused(paused)
		result := s.commandResult(sess, nil)
		eventType := EventResumed
		if paused {
			eventType = EventPaused
		}
		result.Events = append(result.Events, s.newEvent(eventType, result.Message, result.GameState.Year, 0))
		return result
	})
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Engine.Reset()
	return sess.Engine.GetState(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	// touch writes LastAccessedAt, which readers of other sessions see
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetCommandHistory returns paginated command history
func (s *gameServiceImpl) GetCommandHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetCommandHistory()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	commands := []engine.CommandHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				commands = append(commands, history[i])
			}
		} else {
			commands = append(commands, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Commands:      commands,
		TotalCommands: sess.Engine.TotalCommands(),
		Page:          opts.Page,
		PageSize:      opts.Limit,
		TotalPages:    totalPages,
		HasNext:       opts.Page < totalPages,
		HasPrevious:   opts.Page > 1,
	}, nil
}

// ListConfigs returns available scenarios
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific scenario
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a scenario to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	return s.configs.SaveConfig(configName, config)
}

// touch looks a session up and bumps its idle timer. Callers hold the write lock.
func (s *gameServiceImpl) touch(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// command runs fn against a session under the write lock
func (s *gameServiceImpl) command(sessionID string, fn func(*Session) *CommandResult) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sessionID)
	if err != nil {
		return nil, err
	}
	result := fn(sess)
	if !result.Success {
		log.Printf("[CMD] session %s: rejected (%s)", sess.ID, result.Code)
	}
	return result, nil
}

func (s *gameServiceImpl) commandResult(sess *Session, err error) *CommandResult {
	state := sess.Engine.GetState()
	result := &CommandResult{
		Success:   err == nil,
		Message:   state.Message,
		GameState: state,
	}
	if err != nil {
		result.Code = engine.ReasonCode(err)
		result.Message = err.Error()
	}
	return result
}

func (s *gameServiceImpl) newEvent(eventType, message string, year int, amount float64) GameEvent {
	return GameEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: s.now(),
		Year:      year,
		Amount:    amount,
	}
}

// resolveGenerator maps a catalog index or name to an archetype ID. Unknown
// references resolve to -1 so the engine records the rejection.
func resolveGenerator(catalog *engine.Catalog, ref string) int {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		return id
	}
	if id, ok := catalog.Lookup(ref); ok {
		return id
	}
	return -1
}
