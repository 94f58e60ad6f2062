package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/powergrid/game/engine"
	"github.com/wricardo/mcp-training/powergrid/game/service"
	"github.com/wricardo/mcp-training/powergrid/game/session"
)

func createTestConfigDir(t *testing.T) string {
	return t.TempDir()
}

func createValidConfig() *engine.GameConfig {
	cfg := engine.DefaultGameConfig()
	cfg.Name = "Test Config"
	cfg.Description = "Test configuration"
	return cfg
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	data, err := yaml.Marshal(config)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".yaml"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func writeRawFile(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

func TestDefaults_MatchEngineDefaults(t *testing.T) {
	got := Defaults()
	want := engine.DefaultGameConfig()

	if got.Name != want.Name || got.World != want.World || got.Player != want.Player || got.Messages != want.Messages {
		t.Errorf("embedded defaults diverge from engine defaults:\n got %+v\nwant %+v", got, want)
	}
	if len(got.Generators) != len(want.Generators) {
		t.Fatalf("Expected %d generators, got %d", len(want.Generators), len(got.Generators))
	}
	for i := range want.Generators {
		if got.Generators[i] != want.Generators[i] {
			t.Errorf("generator %d: got %+v, want %+v", i, got.Generators[i], want.Generators[i])
		}
	}
	if got.Land.BaseLandCost != want.Land.BaseLandCost || got.Land.SlotsPerLevel != want.Land.SlotsPerLevel ||
		got.Land.GeneratorSellRate != want.Land.GeneratorSellRate || len(got.Land.InitialGenerators) != 1 {
		t.Errorf("land defaults diverge: got %+v", got.Land)
	}
}

func TestParse(t *testing.T) {
	t.Run("partial yaml overrides defaults", func(t *testing.T) {
		cfg, err := Parse([]byte("name: quick\nworld:\n  seconds_per_year: 1\n"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if cfg.Name != "quick" {
			t.Errorf("Expected name quick, got %s", cfg.Name)
		}
		if cfg.World.SecondsPerYear != 1 {
			t.Errorf("Expected seconds_per_year 1, got %v", cfg.World.SecondsPerYear)
		}
		if cfg.World.InitialPopulation != 10000 {
			t.Errorf("Expected default population to survive, got %v", cfg.World.InitialPopulation)
		}
		if len(cfg.Generators) != 5 {
			t.Errorf("Expected default catalog, got %d generators", len(cfg.Generators))
		}
	})

	t.Run("generators list replaces catalog", func(t *testing.T) {
		doc := `
name: tiny
land:
  initial_generators: [Pedal]
generators:
  - name: Pedal
    base_cost: 5
    watts_per_year: 1
    runtime_per_click: 2
    max_runtime: 10
`
		cfg, err := Parse([]byte(doc))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(cfg.Generators) != 1 || cfg.Generators[0].Name != "Pedal" {
			t.Errorf("Expected a single Pedal generator, got %+v", cfg.Generators)
		}
	})

	t.Run("json documents", func(t *testing.T) {
		cfg, err := Parse([]byte(`{"name": "from-json", "player": {"initial_bank": 500}}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if cfg.Player.InitialBank != 500 || cfg.Player.InitialChargeRate != 1 {
			t.Errorf("Unexpected player config %+v", cfg.Player)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Parse([]byte("world:\n  seconds_per_year: 0\n"))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
		if !errors.Is(err, engine.ErrInvalidConfig) {
			t.Errorf("Expected the engine error to stay in the chain, got %v", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Parse([]byte("world: [unclosed"))
		if err == nil {
			t.Error("Expected parse error")
		}
		if errors.Is(err, ErrInvalidConfig) {
			t.Error("Malformed documents are parse errors, not validation errors")
		}
	})
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := createTestConfigDir(t)
		writeConfigFile(t, dir, "classic", createValidConfig())

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Test Config" {
			t.Errorf("Expected classic.yaml to be the default, got %s", manager.GetDefault().Name)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to embedded defaults", func(t *testing.T) {
		manager, err := NewManager(createTestConfigDir(t))
		if err != nil {
			t.Fatalf("NewManager should succeed without config files, got: %v", err)
		}
		if manager.GetDefault() == nil || manager.GetDefault().Name != "classic" {
			t.Errorf("Expected embedded classic default, got %+v", manager.GetDefault())
		}
	})

	t.Run("first valid scenario when classic is missing", func(t *testing.T) {
		dir := createTestConfigDir(t)
		writeRawFile(t, dir, "aaa.yaml", "world: {seconds_per_year: -1}\n")
		cfg := createValidConfig()
		cfg.Name = "Beta"
		writeConfigFile(t, dir, "beta", cfg)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Beta" {
			t.Errorf("Expected Beta as default, got %s", manager.GetDefault().Name)
		}
	})
}

func TestManager_EmbeddedDefault(t *testing.T) {
	manager, err := NewManager(createTestConfigDir(t))
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("listed under its id", func(t *testing.T) {
		configs, err := manager.ListConfigs()
		if err != nil {
			t.Fatalf("ListConfigs failed: %v", err)
		}
		if len(configs) != 1 || configs[0].ConfigID != "classic" {
			t.Fatalf("Expected only the embedded classic scenario, got %+v", configs)
		}
		if configs[0].Generators != 5 || configs[0].InitialSlots != 4 {
			t.Errorf("Unexpected config info %+v", configs[0])
		}
	})

	t.Run("loadable by name", func(t *testing.T) {
		cfg, err := manager.LoadConfig("classic")
		if err != nil {
			t.Fatalf("LoadConfig(classic) failed: %v", err)
		}
		if cfg != manager.GetDefault() {
			t.Error("Expected the cached default pointer")
		}
	})

	t.Run("survives refresh", func(t *testing.T) {
		if err := manager.RefreshCache(); err != nil {
			t.Fatalf("RefreshCache failed: %v", err)
		}
		if _, err := manager.LoadConfig("classic"); err != nil {
			t.Errorf("LoadConfig(classic) after refresh failed: %v", err)
		}
	})

	t.Run("file on disk wins", func(t *testing.T) {
		dir := createTestConfigDir(t)
		cfg := createValidConfig()
		cfg.Name = "classic"
		cfg.Description = "from disk"
		writeConfigFile(t, dir, "classic", cfg)

		m, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		configs, _ := m.ListConfigs()
		if len(configs) != 1 || configs[0].Filename != "classic.yaml" {
			t.Errorf("Expected only the file-backed classic, got %+v", configs)
		}
	})
}

func TestManager_DefaultSessionCanBeRecreated(t *testing.T) {
	manager, err := NewManager(createTestConfigDir(t))
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	svc := service.NewGameService(session.NewManager(), manager)
	ctx := context.Background()

	first, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("CreateSession with default failed: %v", err)
	}
	if first.ConfigName != "classic" {
		t.Errorf("Expected config_name classic, got %q", first.ConfigName)
	}

	second, err := svc.CreateSession(ctx, first.ConfigName)
	if err != nil {
		t.Fatalf("CreateSession(%q) failed: %v", first.ConfigName, err)
	}
	if second.GameConfig.Name != first.GameConfig.Name {
		t.Errorf("Expected the same scenario, got %s and %s", first.GameConfig.Name, second.GameConfig.Name)
	}
}

func TestManager_LoadConfig(t *testing.T) {
	dir := createTestConfigDir(t)

	easy := createValidConfig()
	easy.Name = "Easy"
	writeConfigFile(t, dir, "easy", easy)
	writeRawFile(t, dir, "json_one.json", `{"name": "Json One"}`)
	writeRawFile(t, dir, "short.yml", "name: Short\n")
	writeRawFile(t, dir, "invalid.yaml", "player: {initial_reputation: 2}\n")
	writeRawFile(t, dir, "broken.yaml", "player: [\n")

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("easy")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Easy" {
			t.Errorf("Expected name Easy, got %s", config.Name)
		}
	})

	t.Run("load with extension", func(t *testing.T) {
		config, err := manager.LoadConfig("easy.yaml")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Easy" {
			t.Errorf("Expected name Easy, got %s", config.Name)
		}
	})

	t.Run("load json and yml", func(t *testing.T) {
		if config, err := manager.LoadConfig("json_one"); err != nil || config.Name != "Json One" {
			t.Errorf("json: got %v, %v", config, err)
		}
		if config, err := manager.LoadConfig("short"); err != nil || config.Name != "Short" {
			t.Errorf("yml: got %v, %v", config, err)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		first, _ := manager.LoadConfig("easy")
		second, _ := manager.LoadConfig("easy")
		if first != second {
			t.Error("Expected the cached pointer on the second load")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("nonexistent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("path traversal is not found", func(t *testing.T) {
		_, err := manager.LoadConfig("../etc/passwd")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		_, err := manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed yaml", func(t *testing.T) {
		_, err := manager.LoadConfig("broken")
		if err == nil {
			t.Error("Expected error for malformed yaml")
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := createTestConfigDir(t)

	for _, name := range []string{"zeta", "alpha"} {
		cfg := createValidConfig()
		cfg.Name = name
		writeConfigFile(t, dir, name, cfg)
	}
	writeRawFile(t, dir, "invalid.yaml", "land: {slots_per_level: 0}\n")
	writeRawFile(t, dir, "README.md", "not a scenario")
	if err := os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755); err != nil {
		t.Fatal(err)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("Expected 2 valid configs, got %d", len(configs))
	}
	if configs[0].ConfigID != "alpha" || configs[1].ConfigID != "zeta" {
		t.Errorf("Expected sorted ids, got %s, %s", configs[0].ConfigID, configs[1].ConfigID)
	}
	info := configs[0]
	if info.Filename != "alpha.yaml" || info.Generators != 5 || info.InitialSlots != 4 || info.SecondsPerYear != 5 {
		t.Errorf("Unexpected config info %+v", info)
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := createTestConfigDir(t)
	hard := createValidConfig()
	hard.Name = "Hard"
	writeConfigFile(t, dir, "hard", hard)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if err := manager.SetDefault("hard"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if manager.GetDefault().Name != "Hard" {
		t.Errorf("Expected Hard default, got %s", manager.GetDefault().Name)
	}
	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := createTestConfigDir(t)
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("save and reload from disk", func(t *testing.T) {
		cfg := createValidConfig()
		cfg.Name = "Saved"
		cfg.World.SecondsPerYear = 2
		if err := manager.SaveConfig("saved", cfg); err != nil {
			t.Fatalf("SaveConfig failed: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "saved.yaml")); err != nil {
			t.Fatalf("Expected saved.yaml on disk: %v", err)
		}

		if err := manager.RefreshCache(); err != nil {
			t.Fatalf("RefreshCache failed: %v", err)
		}
		loaded, err := manager.LoadConfig("saved")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if loaded.Name != "Saved" || loaded.World.SecondsPerYear != 2 {
			t.Errorf("Round trip lost data: %+v", loaded)
		}
	})

	t.Run("reject invalid config", func(t *testing.T) {
		cfg := createValidConfig()
		cfg.Player.InitialChargeRate = 0
		err := manager.SaveConfig("bad", cfg)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
		if _, statErr := os.Stat(filepath.Join(dir, "bad.yaml")); !os.IsNotExist(statErr) {
			t.Error("Invalid config must not be written")
		}
	})

	t.Run("reject path names", func(t *testing.T) {
		if err := manager.SaveConfig("../escape", createValidConfig()); err == nil {
			t.Error("Expected error for path name")
		}
	})
}

func TestManager_RefreshCache(t *testing.T) {
	dir := createTestConfigDir(t)
	cfg := createValidConfig()
	cfg.Name = "Before"
	writeConfigFile(t, dir, "classic", cfg)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	cfg.Name = "After"
	writeConfigFile(t, dir, "classic", cfg)

	if got := manager.GetDefault().Name; got != "Before" {
		t.Errorf("Expected cached Before, got %s", got)
	}
	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache failed: %v", err)
	}
	if got := manager.GetDefault().Name; got != "After" {
		t.Errorf("Expected After once refreshed, got %s", got)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := createTestConfigDir(t)

	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = "Config" + string(rune('0'+i))
		writeConfigFile(t, dir, "config"+string(rune('0'+i)), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 60)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			configName := "config" + string(rune('0'+((id%5)+1)))
			if _, err := manager.LoadConfig(configName); err != nil {
				errs <- err
			}
		}(i)
	}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := manager.RefreshCache(); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() == 0 {
		t.Error("Expected cached configs after concurrent loads")
	}
}

// Count is a test-only view of the cache size.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}
