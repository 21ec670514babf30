package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ajitpratap0/kotoba/internal/corpus"
)

const (
	// DefaultMaxAttempts is how many sentences coherent-only mode tries.
	DefaultMaxAttempts = 20

	// DefaultBatchLimit caps the size of one batch request.
	DefaultBatchLimit = 100
)

// Config holds all configuration for kotoba.
type Config struct {
	Corpus     CorpusConfig     `mapstructure:"corpus"`
	Generation GenerationConfig `mapstructure:"generation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	API        APIConfig        `mapstructure:"api"`
}

// CorpusConfig locates the corpus and controls hot reload.
type CorpusConfig struct {
	Dir      string        `mapstructure:"dir"`
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// GenerationConfig holds defaults for generation requests.
type GenerationConfig struct {
	Seed         uint64 `mapstructure:"seed"` // 0 seeds from the clock
	Debug        bool   `mapstructure:"debug"`
	CoherentOnly bool   `mapstructure:"coherent_only"`
	MaxAttempts  int    `mapstructure:"max_attempts"`
	BatchLimit   int    `mapstructure:"batch_limit"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	AuthToken  string `mapstructure:"auth_token"`
}

// String returns a safe representation of APIConfig with the token masked.
func (c APIConfig) String() string {
	return fmt.Sprintf("APIConfig{ListenAddr:%s, AuthToken:%s}", c.ListenAddr, maskToken(c.AuthToken))
}

// maskToken shows first 4 + last 4 chars, replacing the middle with asterisks.
func maskToken(token string) string {
	const visible = 4
	if token == "" {
		return ""
	}
	if len(token) <= visible*2 {
		return "***"
	}
	return token[:visible] + "****" + token[len(token)-visible:]
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("corpus.dir", "./data")
	v.SetDefault("corpus.watch", false)
	v.SetDefault("corpus.debounce", corpus.DefaultDebounce)

	v.SetDefault("generation.seed", 0)
	v.SetDefault("generation.debug", false)
	v.SetDefault("generation.coherent_only", false)
	v.SetDefault("generation.max_attempts", DefaultMaxAttempts)
	v.SetDefault("generation.batch_limit", DefaultBatchLimit)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("api.listen_addr", ":8080")
	v.SetDefault("api.auth_token", "")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".kotoba"))
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("KOTOBA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK: use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if c.Corpus.Dir == "" {
		return fmt.Errorf("corpus.dir must not be empty")
	}
	if c.Corpus.Debounce < 0 {
		return fmt.Errorf("corpus.debounce must be >= 0")
	}
	if c.Generation.MaxAttempts <= 0 {
		return fmt.Errorf("generation.max_attempts must be greater than 0")
	}
	if c.Generation.BatchLimit <= 0 {
		return fmt.Errorf("generation.batch_limit must be greater than 0")
	}
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level %q must be one of %v", c.Logging.Level, validLevels)
	}
	if !slices.Contains(validFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format %q must be one of %v", c.Logging.Format, validFormats)
	}
	if c.API.ListenAddr == "" {
		return fmt.Errorf("api.listen_addr must not be empty")
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
