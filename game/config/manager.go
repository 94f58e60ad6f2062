package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/powergrid/game/engine"
	"github.com/wricardo/mcp-training/powergrid/game/service"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var (
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Extensions recognised as scenario files, in lookup order
var Extensions = []string{".yaml", ".yml", ".json"}

// Defaults returns the embedded built-in scenario.
func Defaults() *engine.GameConfig {
	cfg := &engine.GameConfig{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Parse decodes a scenario over the embedded defaults and validates it.
// JSON documents are accepted too since they are valid YAML.
func Parse(data []byte) (*engine.GameConfig, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := engine.ValidateGameConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// LoadFile reads and parses a single scenario file.
func LoadFile(path string) (*engine.GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// IsScenarioFile reports whether name has a scenario extension.
func IsScenarioFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Manager handles scenario loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	builtin       *engine.GameConfig // embedded default, set when no file supplies one
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a scenario by name, with or without extension
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	key := configID(name)
	if key == "" || strings.ContainsAny(key, `/\`) || key == ".." {
		return nil, fmt.Errorf("%w: %q", ErrConfigNotFound, name)
	}

	m.mu.RLock()
	if config, exists := m.configs[key]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[key]; exists {
		return config, nil
	}

	path, err := m.resolve(name)
	if err != nil {
		return nil, err
	}
	config, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	m.configs[key] = config
	return config, nil
}

// resolve finds the file backing a scenario name.
func (m *Manager) resolve(name string) (string, error) {
	if IsScenarioFile(name) {
		path := filepath.Join(m.configDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("%w: %s", ErrConfigNotFound, name)
	}
	for _, ext := range Extensions {
		path := filepath.Join(m.configDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrConfigNotFound, name)
}

// ListConfigs returns information about all valid scenarios in the directory
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !IsScenarioFile(entry.Name()) {
			continue
		}
		id := configID(entry.Name())
		if seen[id] {
			continue
		}

		config, err := m.LoadConfig(entry.Name())
		if err != nil {
			// Skip invalid configs
			continue
		}
		seen[id] = true
		configs = append(configs, NewConfigInfo(entry.Name(), config))
	}

	m.mu.RLock()
	builtin := m.builtin
	m.mu.RUnlock()
	if builtin != nil {
		if id := configID(builtin.Name); !seen[id] {
			info := NewConfigInfo(id, builtin)
			info.Filename = ""
			configs = append(configs, info)
		}
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })
	return configs, nil
}

// NewConfigInfo summarises a scenario for listings.
func NewConfigInfo(filename string, config *engine.GameConfig) *service.ConfigInfo {
	return &service.ConfigInfo{
		Filename:       filename,
		ConfigID:       configID(filename),
		Name:           config.Name,
		Description:    config.Description,
		SecondsPerYear: config.World.SecondsPerYear,
		InitialBank:    config.Player.InitialBank,
		Generators:     len(config.Generators),
		InitialSlots:   config.Land.InitialLandSize * config.Land.SlotsPerLevel,
	}
}

// GetDefault returns the default scenario
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default scenario by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops every cached scenario and reloads the default from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.GameConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig prefers classic, then the first valid scenario, then the
// embedded one. The embedded scenario is cached under its own ID so sessions
// started from it can be recreated by name.
func (m *Manager) loadDefaultConfig() error {
	m.mu.Lock()
	m.builtin = nil
	m.mu.Unlock()

	config, err := m.LoadConfig("classic")
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr != nil {
			return listErr
		}
		if len(configs) == 0 {
			config = nil
		} else if config, err = m.LoadConfig(configs[0].Filename); err != nil {
			config = nil
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if config == nil {
		config = Defaults()
		m.builtin = config
		m.configs[configID(config.Name)] = config
	}
	m.defaultConfig = config
	return nil
}

// SaveConfig validates a scenario and writes it as YAML
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	key := configID(name)
	if key == "" || strings.ContainsAny(key, `/\`) || key == ".." {
		return fmt.Errorf("invalid config name %q", name)
	}
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(m.configDir, key+".yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[key] = config
	m.mu.Unlock()

	return nil
}

// configID strips a scenario extension from a file or scenario name.
func configID(name string) string {
	name = strings.TrimSpace(name)
	if IsScenarioFile(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
