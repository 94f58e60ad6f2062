package service_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/mcp-training/powergrid/game/engine"
	"github.com/wricardo/mcp-training/powergrid/game/service"
	"github.com/wricardo/mcp-training/powergrid/game/session"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	order    []string
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.order)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         eng.GetConfig(),
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	m.order = append(m.order, id)
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, config)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, id := range m.order {
		if session, ok := m.sessions[id]; ok {
			result = append(result, session)
		}
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errors.New("session not found")
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
	saved   map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	defaultConfig := engine.DefaultGameConfig()
	defaultConfig.Name = "test"
	defaultConfig.Description = "Test configuration"

	fast := engine.DefaultGameConfig()
	fast.Name = "Fast Town"
	fast.World.SecondsPerYear = 1

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"test":    defaultConfig,
			"default": defaultConfig,
			"fast":    fast,
		},
		saved: make(map[string]*engine.GameConfig),
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, errors.New("configuration not found")
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for name, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:       name + ".yaml",
			ConfigID:       name,
			Name:           config.Name,
			Description:    config.Description,
			SecondsPerYear: config.World.SecondsPerYear,
			InitialBank:    config.Player.InitialBank,
			Generators:     len(config.Generators),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ConfigID < result[j].ConfigID })
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["default"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	m.saved[name] = config
	return nil
}

func newTestService(t *testing.T) (service.GameService, string) {
	t.Helper()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())
	info, err := svc.CreateSession(context.Background(), "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	return svc, info.ID
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	sessions := NewMockSessionManager()
	configs := NewMockConfigManager()
	svc := service.NewGameService(sessions, configs)

	tests := []struct {
		name       string
		configName string
		wantConfig string
		wantErr    bool
	}{
		{
			name:       "create with default config",
			configName: "",
			wantConfig: "default",
			wantErr:    false,
		},
		{
			name:       "create with specific config",
			configName: "fast",
			wantConfig: "fast",
			wantErr:    false,
		},
		{
			name:       "create with invalid config",
			configName: "nonexistent",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.configName)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateSession() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if session == nil {
				t.Fatal("CreateSession() returned nil session")
			}
			if session.ConfigName != tt.wantConfig {
				t.Errorf("ConfigName = %q, want %q", session.ConfigName, tt.wantConfig)
			}
			if session.GameState == nil || session.GameState.Finances != 10000 {
				t.Errorf("unexpected initial state: %+v", session.GameState)
			}
		})
	}
}

func TestGameService_CreateSession_ListsAvailableConfigs(t *testing.T) {
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())
	_, err := svc.CreateSession(context.Background(), "nonexistent")
	if err == nil {
		t.Fatal("expected error for unknown config")
	}
	want := "config 'nonexistent' not found. Available configs: [default fast test]"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestGameService_Advance(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	tests := []struct {
		name      string
		sessionID string
		seconds   float64
		wantErr   bool
	}{
		{name: "valid advance", sessionID: id, seconds: 1, wantErr: false},
		{name: "zero seconds", sessionID: id, seconds: 0, wantErr: true},
		{name: "negative seconds", sessionID: id, seconds: -3, wantErr: true},
		{name: "invalid session", sessionID: "nonexistent", seconds: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Advance(ctx, tt.sessionID, tt.seconds)
			if (err != nil) != tt.wantErr {
				t.Errorf("Advance() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && result == nil {
				t.Error("Advance() returned nil result")
			}
		})
	}
}

func TestGameService_Advance_InvalidArgument(t *testing.T) {
	svc, id := newTestService(t)
	_, err := svc.Advance(context.Background(), id, -1)
	if !errors.Is(err, service.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestGameService_Advance_YearEvents(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	// A year lasts five seconds in the default scenario
	result, err := svc.Advance(ctx, id, 6)
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if result.Report.YearsCrossed != 1 {
		t.Errorf("YearsCrossed = %d, want 1", result.Report.YearsCrossed)
	}
	if result.GameState.DisplayYear != 2 {
		t.Errorf("DisplayYear = %d, want 2", result.GameState.DisplayYear)
	}

	types := map[string]bool{}
	for _, ev := range result.Events {
		if ev.ID == "" {
			t.Errorf("event %s has no ID", ev.Type)
		}
		types[ev.Type] = true
	}
	if !types[service.EventYearPassed] {
		t.Errorf("expected %s event, got %+v", service.EventYearPassed, result.Events)
	}
	// The hand crank costs one dollar a year
	if !types[service.EventUpkeepCharged] {
		t.Errorf("expected %s event, got %+v", service.EventUpkeepCharged, result.Events)
	}
}

func TestGameService_Advance_Truncated(t *testing.T) {
	svc, id := newTestService(t)
	result, err := svc.Advance(context.Background(), id, service.MaxAdvanceSeconds*2)
	if err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
	if !result.Truncated || result.Limit != service.MaxAdvanceSeconds {
		t.Errorf("expected truncation at %v, got truncated=%v limit=%v", service.MaxAdvanceSeconds, result.Truncated, result.Limit)
	}
	if result.Report.SecondsElapsed > service.MaxAdvanceSeconds+1e-6 {
		t.Errorf("SecondsElapsed = %v, exceeds limit", result.Report.SecondsElapsed)
	}
}

func TestGameService_AdvanceAll(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())

	running, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatal(err)
	}
	paused, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetPaused(ctx, paused.ID, true); err != nil {
		t.Fatal(err)
	}

	results, err := svc.AdvanceAll(ctx, 0.5)
	if err != nil {
		t.Fatalf("AdvanceAll() error = %v", err)
	}
	if len(results) != 1 || results[0].SessionID != running.ID {
		t.Fatalf("expected only %s to advance, got %d results", running.ID, len(results))
	}

	state, _ := svc.GetGameState(ctx, paused.ID)
	if state.ElapsedSeconds != 0 {
		t.Errorf("paused session advanced to %v", state.ElapsedSeconds)
	}
	state, _ = svc.GetGameState(ctx, running.ID)
	if state.ElapsedSeconds < 0.5-1e-9 {
		t.Errorf("running session at %v, want 0.5", state.ElapsedSeconds)
	}
}

func TestGameService_AdvanceAll_CanceledContext(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.AdvanceAll(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGameService_BuyGenerator(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		slot      int
		generator string
		wantOK    bool
		wantCode  string
	}{
		{name: "by name", slot: 1, generator: "windmill", wantOK: true},
		{name: "by index", slot: 1, generator: "1", wantOK: true},
		{name: "occupied slot", slot: 0, generator: "Windmill", wantOK: false, wantCode: "slot_occupied"},
		{name: "unknown generator", slot: 1, generator: "Steam Engine", wantOK: false, wantCode: "unknown_generator"},
		{name: "not yet available", slot: 1, generator: "Coal Plant", wantOK: false, wantCode: "not_yet_available"},
		{name: "slot out of range", slot: 99, generator: "Windmill", wantOK: false, wantCode: "slot_out_of_range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, id := newTestService(t)
			result, err := svc.BuyGenerator(ctx, id, tt.slot, tt.generator)
			if err != nil {
				t.Fatalf("BuyGenerator() error = %v", err)
			}
			if result.Success != tt.wantOK {
				t.Fatalf("Success = %v, want %v (code %s)", result.Success, tt.wantOK, result.Code)
			}
			if result.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", result.Code, tt.wantCode)
			}
			if tt.wantOK {
				if result.Amount != 250 {
					t.Errorf("Amount = %v, want 250", result.Amount)
				}
				if result.GameState.Finances != 10000-250 {
					t.Errorf("Finances = %v, want %v", result.GameState.Finances, 10000-250)
				}
				if len(result.Events) != 1 || result.Events[0].Type != service.EventPurchase {
					t.Errorf("expected a purchase event, got %+v", result.Events)
				}
			}
		})
	}
}

func TestGameService_SellGenerator(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	if _, err := svc.BuyGenerator(ctx, id, 1, "Windmill"); err != nil {
		t.Fatal(err)
	}
	result, err := svc.SellGenerator(ctx, id, 1)
	if err != nil {
		t.Fatalf("SellGenerator() error = %v", err)
	}
	if !result.Success || result.Amount != 162.5 {
		t.Errorf("expected sale for 162.5, got success=%v amount=%v", result.Success, result.Amount)
	}
	if !result.GameState.Slots[1].Empty {
		t.Error("slot 1 should be empty after selling")
	}

	result, err = svc.SellGenerator(ctx, id, 1)
	if err != nil {
		t.Fatal(err)
	}
	if result.Success || result.Code != "slot_empty" {
		t.Errorf("expected slot_empty, got success=%v code=%s", result.Success, result.Code)
	}
}

func TestGameService_BuyLand(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	before, _ := svc.GetGameState(ctx, id)
	result, err := svc.BuyLand(ctx, id)
	if err != nil {
		t.Fatalf("BuyLand() error = %v", err)
	}
	if !result.Success {
		t.Fatalf("BuyLand() failed: %s", result.Code)
	}
	if result.Amount != before.LandCost {
		t.Errorf("Amount = %v, want %v", result.Amount, before.LandCost)
	}
	if got, want := len(result.GameState.Slots), len(before.Slots)+before.SlotsPerLevel; got != want {
		t.Errorf("slots = %d, want %d", got, want)
	}
}

func TestGameService_QueueRuntime(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		slot        int
		clicks      int
		wantOK      bool
		wantApplied int
		wantTrunc   bool
	}{
		{name: "single click", slot: 0, clicks: 1, wantOK: true, wantApplied: 1},
		{name: "zero clicks means one", slot: 0, clicks: 0, wantOK: true, wantApplied: 1},
		{name: "many clicks", slot: 0, clicks: 5, wantOK: true, wantApplied: 5},
		{name: "capped clicks", slot: 0, clicks: service.MaxClicks + 10, wantOK: true, wantApplied: service.MaxClicks, wantTrunc: true},
		{name: "empty slot", slot: 1, clicks: 1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, id := newTestService(t)
			result, err := svc.QueueRuntime(ctx, id, tt.slot, tt.clicks)
			if err != nil {
				t.Fatalf("QueueRuntime() error = %v", err)
			}
			if result.Success != tt.wantOK {
				t.Fatalf("Success = %v, want %v (code %s)", result.Success, tt.wantOK, result.Code)
			}
			if result.ClicksApplied != tt.wantApplied {
				t.Errorf("ClicksApplied = %d, want %d", result.ClicksApplied, tt.wantApplied)
			}
			if result.Truncated != tt.wantTrunc {
				t.Errorf("Truncated = %v, want %v", result.Truncated, tt.wantTrunc)
			}
			if tt.wantOK {
				// Runtime is capped at the hand crank's 30 seconds
				want := float64(tt.wantApplied)
				if want > 30 {
					want = 30
				}
				if got := result.GameState.Slots[0].Runtime; got != want {
					t.Errorf("Runtime = %v, want %v", got, want)
				}
			}
		})
	}
}

func TestGameService_ChargeRate(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	result, err := svc.AdjustChargeRate(ctx, id, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.GameState.ChargeRate != 5 {
		t.Errorf("expected rate 5, got success=%v rate=%d", result.Success, result.GameState.ChargeRate)
	}

	result, err = svc.AdjustChargeRate(ctx, id, -100)
	if err != nil {
		t.Fatal(err)
	}
	if result.GameState.ChargeRate != 1 {
		t.Errorf("rate should stay positive, got %d", result.GameState.ChargeRate)
	}

	result, err = svc.SetChargeRate(ctx, id, 0)
	if err != nil {
		t.Fatal(err)
	}
	if result.Success {
		t.Error("SetChargeRate(0) should fail")
	}

	result, err = svc.SetChargeRate(ctx, id, 12)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.Amount != 12 {
		t.Errorf("expected rate 12, got success=%v amount=%v", result.Success, result.Amount)
	}
}

func TestGameService_SetPaused(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	result, err := svc.SetPaused(ctx, id, true)
	if err != nil {
		t.Fatal(err)
	}
	if !result.GameState.Paused || result.Events[0].Type != service.EventPaused {
		t.Errorf("expected paused state and event, got %+v", result)
	}

	adv, err := svc.Advance(ctx, id, 3)
	if err != nil {
		t.Fatal(err)
	}
	if adv.Report.Steps != 0 {
		t.Errorf("paused session ran %d steps", adv.Report.Steps)
	}

	result, err = svc.SetPaused(ctx, id, false)
	if err != nil {
		t.Fatal(err)
	}
	if result.GameState.Paused || result.Events[0].Type != service.EventResumed {
		t.Errorf("expected resumed state and event, got %+v", result)
	}
}

func TestGameService_GetCommandHistory(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	// Generate some history
	_, _ = svc.AdjustChargeRate(ctx, id, 1)
	_, _ = svc.BuyGenerator(ctx, id, 1, "Windmill")
	_, _ = svc.SellGenerator(ctx, id, 3)
	_, _ = svc.QueueRuntime(ctx, id, 0, 1)

	tests := []struct {
		name      string
		sessionID string
		opts      service.HistoryOptions
		wantLen   int
		wantFirst string
		wantErr   bool
	}{
		{
			name:      "default options",
			sessionID: id,
			opts:      service.HistoryOptions{},
			wantLen:   4,
			wantFirst: engine.ActionQueueRuntime,
		},
		{
			name:      "with pagination",
			sessionID: id,
			opts:      service.HistoryOptions{Page: 1, Limit: 2, Order: "asc"},
			wantLen:   2,
			wantFirst: engine.ActionAdjustCharge,
		},
		{
			name:      "second page descending",
			sessionID: id,
			opts:      service.HistoryOptions{Page: 2, Limit: 3, Order: "desc"},
			wantLen:   1,
			wantFirst: engine.ActionAdjustCharge,
		},
		{
			name:      "page past the end",
			sessionID: id,
			opts:      service.HistoryOptions{Page: 9, Limit: 10},
			wantLen:   0,
		},
		{
			name:      "invalid session",
			sessionID: "nonexistent",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.GetCommandHistory(ctx, tt.sessionID, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetCommandHistory() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if result.Commands == nil {
				t.Fatal("GetCommandHistory() returned nil commands slice")
			}
			if len(result.Commands) != tt.wantLen {
				t.Fatalf("len(Commands) = %d, want %d", len(result.Commands), tt.wantLen)
			}
			if tt.wantLen > 0 && result.Commands[0].Action != tt.wantFirst {
				t.Errorf("first action = %s, want %s", result.Commands[0].Action, tt.wantFirst)
			}
			if result.TotalCommands != 4 {
				t.Errorf("TotalCommands = %d, want 4", result.TotalCommands)
			}
		})
	}
}

func TestGameService_ListSessions(t *testing.T) {
	ctx := context.Background()
	sessions := NewMockSessionManager()
	configs := NewMockConfigManager()
	svc := service.NewGameService(sessions, configs)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateSession(ctx, "test")
		if err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
	}

	sessionList, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}

	if len(sessionList) != 3 {
		t.Errorf("ListSessions() returned %d sessions, want 3", len(sessionList))
	}
}

// Readers bump LastAccessedAt; run with -race to check they do not collide.
func TestGameService_ConcurrentReads(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(session.NewManager(), NewMockConfigManager())

	info, err := svc.CreateSession(ctx, "test")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8*200)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				var err error
				switch (g + i) % 4 {
				case 0:
					_, err = svc.GetSession(ctx, info.ID)
				case 1:
					_, err = svc.GetGameState(ctx, info.ID)
				case 2:
					_, err = svc.ListSessions(ctx)
				default:
					_, err = svc.Advance(ctx, info.ID, 0.1)
				}
				if err != nil {
					errs <- err
				}
			}
		}(g)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error: %v", err)
	}

	got, err := svc.GetSession(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.LastAccessedAt.Before(info.LastAccessedAt) {
		t.Error("LastAccessedAt should never move backwards")
	}
}

func TestGameService_DeleteSession(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	if err := svc.DeleteSession(ctx, id); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if _, err := svc.GetSession(ctx, id); err == nil {
		t.Error("expected error after delete")
	}
	if err := svc.DeleteSession(ctx, id); err == nil {
		t.Error("expected error deleting twice")
	}
}

func TestGameService_Reset(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	if _, err := svc.BuyGenerator(ctx, id, 1, "Windmill"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Advance(ctx, id, 12); err != nil {
		t.Fatal(err)
	}

	state, err := svc.Reset(ctx, id)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	if state.Finances != 10000 {
		t.Errorf("Finances = %v, want 10000", state.Finances)
	}
	if state.ElapsedSeconds != 0 {
		t.Errorf("ElapsedSeconds = %v, want 0", state.ElapsedSeconds)
	}
	if !state.Slots[1].Empty {
		t.Error("bought generator should be gone after reset")
	}
	if state.CurrentCommands != 0 {
		t.Errorf("CurrentCommands = %d, want 0", state.CurrentCommands)
	}
}

func TestGameService_SaveConfig(t *testing.T) {
	ctx := context.Background()
	configs := NewMockConfigManager()
	svc := service.NewGameService(NewMockSessionManager(), configs)

	bad := engine.DefaultGameConfig()
	bad.World.SecondsPerYear = 0
	if err := svc.SaveConfig(ctx, "bad", bad); !errors.Is(err, engine.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if _, ok := configs.saved["bad"]; ok {
		t.Error("invalid config should not be saved")
	}

	if err := svc.SaveConfig(ctx, "good", engine.DefaultGameConfig()); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	if _, ok := configs.saved["good"]; !ok {
		t.Error("valid config should be saved")
	}
}
