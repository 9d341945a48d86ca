// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultTemperature is the default sampling temperature.
	DefaultTemperature = 0.7

	// DefaultTopP is the default nucleus-sampling parameter.
	DefaultTopP = 0.95

	// DefaultMaxTokens is the default output token limit for a completion.
	DefaultMaxTokens = 32768

	// DefaultSystemPrompt seeds every new conversation.
	DefaultSystemPrompt = "You are a helpful assistant."

	// configDirName is the per-user directory holding config and data files.
	configDirName = ".streamchat"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config represents the complete streamchat configuration.
type Config struct {
	// Endpoint is the base URL of the chat-completions provider. Required.
	Endpoint string `toml:"endpoint"`

	// APIKey is the provider credential. Required.
	APIKey string `toml:"api_key"`

	// Model is the model identifier sent with every request. Required.
	Model string `toml:"model"`

	// Sampling parameters.
	Temperature float64 `toml:"temperature"`
	TopP        float64 `toml:"top_p"`
	MaxTokens   int     `toml:"max_tokens"`

	// SystemPrompt seeds each conversation.
	SystemPrompt string `toml:"system_prompt"`

	// HistoryFile is the path of the persisted conversation history.
	// Empty means ~/.streamchat/history.json.
	HistoryFile string `toml:"history_file"`

	// UsageDB is the path of the usage ledger database.
	// Empty means ~/.streamchat/usage.db.
	UsageDB string `toml:"usage_db"`
}

// ConfigError reports missing required connection parameters.
// It is fatal at startup: the caller prints it and exits non-zero.
type ConfigError struct {
	Missing []string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "missing required configuration: " + strings.Join(e.Missing, ", ") +
		" (set STREAMCHAT_* environment variables or edit " + configDirName + "/config.toml)"
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads configuration from the default locations.
func Load() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, "config.toml"))
}

// LoadFrom reads configuration starting from the given TOML file path.
// A missing file is not an error; environment variables alone can supply a
// complete configuration.
func LoadFrom(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadUnchecked reads configuration from the default locations without
// requiring the connection parameters. Commands that only need file paths
// (history browsing) use this; anything that talks to the provider must go
// through Load.
func LoadUnchecked() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadUncheckedFrom(filepath.Join(dir, "config.toml"))
}

// LoadUncheckedFrom is LoadUnchecked with an explicit config file path.
func LoadUncheckedFrom(path string) (*Config, error) {
	return read(path)
}

// read loads the TOML file (if present), the .env file, and the environment
// overlay, without validating required fields.
func read(path string) (*Config, error) {
	cfg := defaults()

	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	// A .env file in the working directory feeds the environment overrides.
	// Absence is fine; a malformed file is silently skipped the same way.
	_ = godotenv.Load()

	applyEnv(cfg)
	return cfg, nil
}

// defaults returns a Config with all non-required fields filled in.
func defaults() *Config {
	return &Config{
		Temperature:  DefaultTemperature,
		TopP:         DefaultTopP,
		MaxTokens:    DefaultMaxTokens,
		SystemPrompt: DefaultSystemPrompt,
	}
}

// applyEnv overlays STREAMCHAT_* environment variables on the config.
func applyEnv(cfg *Config) {
	if v := os.Getenv("STREAMCHAT_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("STREAMCHAT_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("STREAMCHAT_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("STREAMCHAT_HISTORY_FILE"); v != "" {
		cfg.HistoryFile = v
	}
}

// Validate checks that all required connection parameters are present.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "endpoint")
	} else if _, err := url.Parse(c.Endpoint); err != nil {
		return fmt.Errorf("invalid endpoint URL %q: %w", c.Endpoint, err)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		missing = append(missing, "api_key")
	}
	if strings.TrimSpace(c.Model) == "" {
		missing = append(missing, "model")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the per-user streamchat directory, creating it if needed.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	dir := filepath.Join(home, configDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// HistoryPath returns the history file path, falling back to the default
// under the config directory.
func (c *Config) HistoryPath() (string, error) {
	if c.HistoryFile != "" {
		return c.HistoryFile, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}

// UsageDBPath returns the usage ledger path, falling back to the default
// under the config directory.
func (c *Config) UsageDBPath() (string, error) {
	if c.UsageDB != "" {
		return c.UsageDB, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "usage.db"), nil
}
