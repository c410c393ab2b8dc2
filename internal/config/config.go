// Package config loads client configuration from a YAML file and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all client configuration.
type Config struct {
	// Server
	ServerURL string `yaml:"server_url"`

	// Push channel ("sse" or "websocket", default: "sse")
	PushTransport string `yaml:"push_transport"`

	// Polling fallback for views without reliable push delivery
	PollInterval time.Duration `yaml:"poll_interval"`

	// Metrics endpoint served by the watch command ("" = disabled)
	MetricsAddr string `yaml:"metrics_addr"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Local state (preferences DB, saved token)
	StateDir string `yaml:"state_dir"`

	// HTTP
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		ServerURL:      "http://localhost:9000",
		PushTransport:  "sse",
		PollInterval:   10 * time.Second,
		MetricsAddr:    "",
		LogLevel:       "info",
		LogFormat:      "console",
		StateDir:       defaultStateDir(),
		RequestTimeout: 30 * time.Second,
	}
}

// Load reads configuration: defaults, then an optional YAML file, then
// environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("server_url is required")
	}
	if cfg.PushTransport != "sse" && cfg.PushTransport != "websocket" {
		return nil, fmt.Errorf("push_transport must be %q or %q, got %q", "sse", "websocket", cfg.PushTransport)
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.ServerURL = envOr("SNAILSYNK_SERVER", c.ServerURL)
	c.PushTransport = envOr("SNAILSYNK_PUSH_TRANSPORT", c.PushTransport)
	c.MetricsAddr = envOr("SNAILSYNK_METRICS_ADDR", c.MetricsAddr)
	c.LogLevel = envOr("SNAILSYNK_LOG_LEVEL", c.LogLevel)
	c.LogFormat = envOr("SNAILSYNK_LOG_FORMAT", c.LogFormat)
	c.StateDir = envOr("SNAILSYNK_STATE_DIR", c.StateDir)
	c.PollInterval = envDuration("SNAILSYNK_POLL_INTERVAL", c.PollInterval)
	c.RequestTimeout = envDuration("SNAILSYNK_REQUEST_TIMEOUT", c.RequestTimeout)
}

func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".snailsynk"
	}
	return filepath.Join(base, "snailsynk")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
