package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds all grocery settings.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Toast   ToastConfig   `yaml:"toast"`
	Theme   string        `yaml:"theme"` // classic, neon, mono
	Log     LogConfig     `yaml:"log"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // json, sqlite
	Dir     string `yaml:"dir"`
	Key     string `yaml:"key"` // slot name inside the sqlite database
}

type ToastConfig struct {
	Duration  string `yaml:"duration"`
	Sound     bool   `yaml:"sound"`
	Vibration bool   `yaml:"vibration"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultDir is ~/.grocery, or ./.grocery when the home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".grocery"
	}
	return filepath.Join(home, ".grocery")
}

func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendJSON,
			Dir:     DefaultDir(),
			Key:     "grocery-list",
		},
		Toast: ToastConfig{
			Duration:  "4s",
			Sound:     true,
			Vibration: true,
		},
		Theme: "classic",
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load reads path over the defaults, then applies env overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if dir := os.Getenv("GROCERY_DATA_DIR"); dir != "" {
		c.Storage.Dir = dir
	}
	if b := os.Getenv("GROCERY_BACKEND"); b != "" {
		c.Storage.Backend = b
	}
	if th := os.Getenv("GROCERY_THEME"); th != "" {
		c.Theme = th
	}
}

func (c *Config) Validate() error {
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if _, err := c.ToastDuration(); err != nil {
		return err
	}
	return nil
}

// ToastDuration parses toast.duration; empty means the 4s default.
func (c *Config) ToastDuration() (time.Duration, error) {
	if strings.TrimSpace(c.Toast.Duration) == "" {
		return 4 * time.Second, nil
	}
	d, err := time.ParseDuration(c.Toast.Duration)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("config: bad toast duration %q", c.Toast.Duration)
	}
	return d, nil
}

// LogFile returns the configured log path, defaulting into the data dir.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.Storage.Dir, "grocery.log")
}

// Save writes the config as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	data, err := c.YAML()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}
