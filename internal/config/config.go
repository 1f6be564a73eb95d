package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigDir    = ".hookguard"
	DefaultLogFile      = "audit.jsonl"
	DefaultSettingsFile = "settings.yaml"

	// Environment variables read at the entry-point boundary. The rest of
	// the pipeline receives their values as explicit parameters.
	EnvOverrideSecret = "HOOKGUARD_OVERRIDE_SECRET"
	EnvOverrideCode   = "HOOKGUARD_OVERRIDE_CODE"
	EnvBypass         = "HOOKGUARD_BYPASS"
)

// Settings are the operator-tunable knobs from settings.yaml. Every field is
// optional; zero values mean defaults.
type Settings struct {
	LogPath        string   `yaml:"log_path"`
	DisabledGuards []string `yaml:"disabled_guards"`
	ProtectedPaths []string `yaml:"protected_paths"`
}

// Config is the resolved configuration for one invocation.
type Config struct {
	ConfigDir    string
	SettingsPath string
	LogPath      string
	Settings     Settings
}

// Load resolves the config directory (creating it on first use), reads the
// optional settings file, and applies flag overrides. Flags win over
// settings, settings win over defaults.
func Load(settingsPath, logPath string) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, DefaultConfigDir)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	cfg := &Config{ConfigDir: configDir}

	cfg.SettingsPath = settingsPath
	if cfg.SettingsPath == "" {
		cfg.SettingsPath = filepath.Join(configDir, DefaultSettingsFile)
	}
	if err := loadSettings(cfg.SettingsPath, &cfg.Settings); err != nil {
		return nil, err
	}

	cfg.LogPath = logPath
	if cfg.LogPath == "" {
		cfg.LogPath = cfg.Settings.LogPath
	}
	if cfg.LogPath == "" {
		cfg.LogPath = filepath.Join(configDir, DefaultLogFile)
	}

	return cfg, nil
}

// loadSettings reads a yaml settings file. A missing file is not an error;
// a present but unreadable one is.
func loadSettings(path string, out *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse settings %s: %w", path, err)
	}
	return nil
}
