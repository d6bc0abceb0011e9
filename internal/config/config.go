// Package config loads the TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override secrets from the config file.
const (
	EnvOpenAIKey = "AETHERMIND_OPENAI_API_KEY"
	EnvGeminiKey = "AETHERMIND_GEMINI_API_KEY"
	EnvConfig    = "AETHERMIND_CONFIG"

	// EnvBackupPassphrase encrypts backups made by the backup command.
	EnvBackupPassphrase = "AETHERMIND_BACKUP_PASSPHRASE"
)

// Config represents the application configuration.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Scryfall    ScryfallConfig    `toml:"scryfall"`
	LLM         LLMConfig         `toml:"llm"`
	DeckBuilder DeckBuilderConfig `toml:"deckbuilder"`
	Log         LogConfig         `toml:"log"`
}

// ServerConfig contains HTTP API settings.
type ServerConfig struct {
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path string `toml:"path"` // Empty means ~/.aethermind/decks.db
}

// ScryfallConfig contains card database client settings.
type ScryfallConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit string `toml:"rate_limit"` // Minimum delay between requests (e.g., "100ms")
	Timeout   string `toml:"timeout"`
}

// LLMConfig selects and configures the language model provider.
type LLMConfig struct {
	Provider         string  `toml:"provider"` // "ollama", "openai" or "gemini"
	Model            string  `toml:"model"`
	BaseURL          string  `toml:"base_url"`
	APIKey           string  `toml:"api_key"`
	RequestTimeout   string  `toml:"request_timeout"`
	InferenceTimeout string  `toml:"inference_timeout"`
	Temperature      float64 `toml:"temperature"`
}

// DeckBuilderConfig contains pipeline settings.
type DeckBuilderConfig struct {
	MaxCards           int    `toml:"max_cards"`           // Cap on suggested names kept
	ResolveConcurrency int    `toml:"resolve_concurrency"` // Parallel card lookups
	BuildTimeout       string `toml:"build_timeout"`       // Deadline for a whole build
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level       string `toml:"level"` // debug, info, warn, error
	Development bool   `toml:"development"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
		Database: DatabaseConfig{
			Path: "",
		},
		Scryfall: ScryfallConfig{
			BaseURL:   "https://api.scryfall.com",
			RateLimit: "100ms",
			Timeout:   "30s",
		},
		LLM: LLMConfig{
			Provider:         "ollama",
			Model:            "qwen3:8b",
			BaseURL:          "http://localhost:11434",
			RequestTimeout:   "30s",
			InferenceTimeout: "120s",
			Temperature:      0.7,
		},
		DeckBuilder: DeckBuilderConfig{
			MaxCards:           99,
			ResolveConcurrency: 8,
			BuildTimeout:       "2m",
		},
		Log: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// DefaultPath returns ~/.aethermind/config.toml, or $AETHERMIND_CONFIG when set.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// dataDir returns the directory holding config and database files.
func dataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".aethermind"), nil
}

// Load loads the configuration from path. Returns the default config if the file doesn't exist.
// Values missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	config.applyEnv()
	return config, nil
}

// applyEnv overrides secrets from the environment.
func (c *Config) applyEnv() {
	switch c.LLM.Provider {
	case "openai":
		if key := os.Getenv(EnvOpenAIKey); key != "" {
			c.LLM.APIKey = key
		}
	case "gemini":
		if key := os.Getenv(EnvGeminiKey); key != "" {
			c.LLM.APIKey = key
		}
	}
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	durations := map[string]string{
		"scryfall.rate_limit":       c.Scryfall.RateLimit,
		"scryfall.timeout":          c.Scryfall.Timeout,
		"llm.request_timeout":       c.LLM.RequestTimeout,
		"llm.inference_timeout":     c.LLM.InferenceTimeout,
		"deckbuilder.build_timeout": c.DeckBuilder.BuildTimeout,
	}
	for key, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.DeckBuilder.MaxCards <= 0 {
		return fmt.Errorf("deckbuilder.max_cards must be positive: %d", c.DeckBuilder.MaxCards)
	}

	if c.DeckBuilder.ResolveConcurrency <= 0 {
		return fmt.Errorf("deckbuilder.resolve_concurrency must be positive: %d", c.DeckBuilder.ResolveConcurrency)
	}

	switch c.LLM.Provider {
	case "ollama":
	case "openai", "gemini":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm.api_key is required for provider %q", c.LLM.Provider)
		}
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	return nil
}

// DatabasePath returns the configured database path or the default location.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "decks.db"), nil
}

// Duration parses one of the config's duration strings.
// Validate must have accepted the config first.
func Duration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}
