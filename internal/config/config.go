// Package config loads coach settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jwulff/coach/internal/daemon"
	"github.com/jwulff/coach/internal/db"
	"gopkg.in/yaml.v3"
)

// Transport names.
const (
	TransportSocket    = "socket"
	TransportWebsocket = "websocket"
)

// Config holds all coach configuration.
type Config struct {
	// Operator is the acting user recorded with each call.
	Operator string `yaml:"operator"`

	// Call transport
	Transport  string `yaml:"transport"` // socket, websocket
	SocketPath string `yaml:"socket_path"`
	RelayURL   string `yaml:"relay_url"`

	// CallTimeout bounds each begin/end request, e.g. "15s".
	CallTimeout string `yaml:"call_timeout"`

	// Storage and logs
	DBPath   string `yaml:"db_path"`
	LogPath  string `yaml:"log_path"`
	LogLevel string `yaml:"log_level"`

	// Defaults for the setup form
	Product     string `yaml:"product"`
	Focus       string `yaml:"focus"`
	ShowContext bool   `yaml:"show_context"`
}

// Default returns the built-in configuration.
func Default() Config {
	operator := os.Getenv("USER")
	return Config{
		Operator:    operator,
		Transport:   TransportSocket,
		SocketPath:  daemon.SocketPath(),
		RelayURL:    "ws://localhost:8787/v1/call",
		CallTimeout: "15s",
		DBPath:      db.DefaultDBPath(),
		LogPath:     filepath.Join(filepath.Dir(db.DefaultDBPath()), "coach.log"),
		LogLevel:    "info",
		ShowContext: true,
	}
}

// DefaultPath returns where the config file is looked up when $COACH_CONFIG
// is not set.
func DefaultPath() string {
	if p := os.Getenv("COACH_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "coach.yaml"
	}
	return filepath.Join(dir, "coach", "config.yaml")
}

// Load reads path on top of the defaults. A missing file is not an error.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("COACH_TRANSPORT"); v != "" {
		c.Transport = v
	}
	if v := os.Getenv("COACH_SOCKET"); v != "" {
		c.SocketPath = v
	}
	if v := os.Getenv("COACH_RELAY_URL"); v != "" {
		c.RelayURL = v
	}
	if v := os.Getenv("COACH_DB"); v != "" {
		c.DBPath = v
	}
}

// Validate checks values that would otherwise fail later at runtime.
func (c Config) Validate() error {
	switch c.Transport {
	case TransportSocket:
		if c.SocketPath == "" {
			return errors.New("config: socket_path is required for the socket transport")
		}
	case TransportWebsocket:
		if c.RelayURL == "" {
			return errors.New("config: relay_url is required for the websocket transport")
		}
	default:
		return fmt.Errorf("config: unknown transport %q", c.Transport)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Timeout returns CallTimeout parsed. Empty means no timeout.
func (c Config) Timeout() (time.Duration, error) {
	if c.CallTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CallTimeout)
	if err != nil {
		return 0, fmt.Errorf("config: call_timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: call_timeout must not be negative")
	}
	return d, nil
}

// Save writes the configuration as YAML, creating parent directories.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
