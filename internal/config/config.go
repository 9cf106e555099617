// Package config loads TaskFlow configuration.
//
// Configuration is resolved in three layers, later layers winning:
//
//  1. compiled-in defaults,
//  2. an optional YAML config file,
//  3. environment variables.
//
// Library code never exits on bad configuration; Load returns errors and the
// caller decides what is fatal.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/taskflowhq/taskflow/common/environment"
)

// Config is the full TaskFlow server configuration.
type Config struct {
	// ListenAddr is the host:port the HTTP server binds to.
	ListenAddr string `yaml:"listen_addr"`

	// DatabasePath is the SQLite database file path.
	DatabasePath string `yaml:"database_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format"`

	Oracle   OracleConfig   `yaml:"oracle"`
	Session  SessionConfig  `yaml:"session"`
	Reminder ReminderConfig `yaml:"reminder"`
}

// OracleConfig configures the remote language-model assistant. When APIKey is
// empty the oracle is disabled and the chat engine always uses the local
// rule-based interpreter.
type OracleConfig struct {
	// APIKey is the bearer token for the OpenAI-compatible API.
	// Populated from OPENAI_API_KEY; never written to a config file by us,
	// but accepted from one for local setups.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the API endpoint (Ollama, Azure, any compatible API).
	BaseURL string `yaml:"base_url"`

	// Model is the chat model to use.
	Model string `yaml:"model"`

	// Timeout bounds a single oracle round-trip. On expiry the engine falls
	// back to the local interpreter.
	Timeout time.Duration `yaml:"timeout"`

	// RateLimit is the maximum oracle calls per user per minute.
	RateLimit int `yaml:"rate_limit"`

	// DailyTokenBudget is the maximum LLM tokens per user per UTC day.
	DailyTokenBudget int `yaml:"daily_token_budget"`
}

// SessionConfig configures the in-memory dialogue sessions.
type SessionConfig struct {
	// TTL is how long an idle dialogue session is kept before it is dropped.
	TTL time.Duration `yaml:"ttl"`

	// MaxHistory is the number of conversation turns kept per session and
	// passed to the oracle for continuity.
	MaxHistory int `yaml:"max_history"`
}

// ReminderConfig configures the background due-task scanner.
type ReminderConfig struct {
	Enabled bool `yaml:"enabled"`

	// Interval is how often the scanner polls the store.
	Interval time.Duration `yaml:"interval"`

	// Lookahead is how far ahead of the due date a task is announced.
	Lookahead time.Duration `yaml:"lookahead"`
}

// Default returns the compiled-in defaults.
func Default() *Config {
	return &Config{
		ListenAddr:   ":5000",
		DatabasePath: "./taskflow.db",
		LogLevel:     "info",
		LogFormat:    "text",
		Oracle: OracleConfig{
			Timeout:          10 * time.Second,
			RateLimit:        20,
			DailyTokenBudget: 50_000,
		},
		Session: SessionConfig{
			TTL:        5 * time.Minute,
			MaxHistory: 20,
		},
		Reminder: ReminderConfig{
			Enabled:   true,
			Interval:  time.Minute,
			Lookahead: time.Minute,
		},
	}
}

// Load builds the effective configuration. path names an optional YAML file;
// when empty, no file is read. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file/default values with environment variables.
func (c *Config) applyEnv() {
	c.ListenAddr = environment.StringOr("TASKFLOW_LISTEN_ADDR", c.ListenAddr)
	c.DatabasePath = environment.StringOr("DATABASE_PATH", c.DatabasePath)
	c.LogLevel = environment.StringOr("TASKFLOW_LOG_LEVEL", c.LogLevel)
	c.LogFormat = environment.StringOr("TASKFLOW_LOG_FORMAT", c.LogFormat)

	c.Oracle.APIKey = environment.StringOr("OPENAI_API_KEY", c.Oracle.APIKey)
	c.Oracle.BaseURL = environment.StringOr("TASKFLOW_ORACLE_BASE_URL", c.Oracle.BaseURL)
	c.Oracle.Model = environment.StringOr("TASKFLOW_ORACLE_MODEL", c.Oracle.Model)
	c.Oracle.Timeout = environment.DurationOr("TASKFLOW_ORACLE_TIMEOUT", c.Oracle.Timeout)
	c.Oracle.RateLimit = environment.IntOr("TASKFLOW_ORACLE_RATE_LIMIT", c.Oracle.RateLimit)
	c.Oracle.DailyTokenBudget = environment.IntOr("TASKFLOW_ORACLE_TOKEN_BUDGET", c.Oracle.DailyTokenBudget)

	c.Session.TTL = environment.DurationOr("TASKFLOW_SESSION_TTL", c.Session.TTL)
	c.Session.MaxHistory = environment.IntOr("TASKFLOW_SESSION_MAX_HISTORY", c.Session.MaxHistory)

	c.Reminder.Enabled = environment.BoolOr("TASKFLOW_REMINDER_ENABLED", c.Reminder.Enabled)
	c.Reminder.Interval = environment.DurationOr("TASKFLOW_REMINDER_INTERVAL", c.Reminder.Interval)
	c.Reminder.Lookahead = environment.DurationOr("TASKFLOW_REMINDER_LOOKAHEAD", c.Reminder.Lookahead)
}

// validate checks values that would otherwise fail at an awkward time.
func (c *Config) validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen_addr must not be empty")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("config: database_path must not be empty")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: log_format must be \"text\" or \"json\", got %q", c.LogFormat)
	}
	if c.Oracle.Timeout <= 0 {
		return fmt.Errorf("config: oracle.timeout must be positive, got %s", c.Oracle.Timeout)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: session.ttl must be positive, got %s", c.Session.TTL)
	}
	return nil
}
