// Package config provides configuration management for the analysis application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	apperrors "tradecoach/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Import      ImportConfig           `mapstructure:"import"`
	Coach       CoachConfig            `mapstructure:"coach"`
	UI          UIConfig               `mapstructure:"ui"`
	Brokerages  map[string]FeeOverride `mapstructure:"brokerages"`
	Credentials Credentials            `mapstructure:"-"` // Loaded separately
}

// ImportConfig holds trade import configuration.
type ImportConfig struct {
	AllowLegacy bool   `mapstructure:"allow_legacy"` // accept rows without entry/exit/balance
	DataDir     string `mapstructure:"data_dir"`
}

// CoachConfig holds coaching enrichment configuration.
type CoachConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// FeeOverride customizes one brokerage's fee schedule for the comparison.
type FeeOverride struct {
	PerTrade   *float64 `mapstructure:"per_trade"`
	MonthlyFee *float64 `mapstructure:"monthly_fee"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradecoach"
	}
	return filepath.Join(home, ".config", "tradecoach")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("import.allow_legacy", true)
	v.SetDefault("import.data_dir", filepath.Join(configDir, "datasets"))
	v.SetDefault("coach.enabled", true)
	v.SetDefault("coach.model", "gpt-4o-mini")
	v.SetDefault("coach.timeout_seconds", 30)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createTemplateConfig(configDir); err != nil {
				return err
			}
			return v.Unmarshal(target)
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("TRADECOACH_MODEL"); v != "" {
		cfg.Coach.Model = v
	}
	if v := os.Getenv("TRADECOACH_DATA_DIR"); v != "" {
		cfg.Import.DataDir = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Coach.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: coach.timeout_seconds must be positive", apperrors.ErrConfigInvalid)
	}
	for name, o := range c.Brokerages {
		if o.PerTrade != nil && *o.PerTrade < 0 {
			return fmt.Errorf("%w: brokerages.%s.per_trade must be non-negative", apperrors.ErrConfigInvalid, name)
		}
		if o.MonthlyFee != nil && *o.MonthlyFee < 0 {
			return fmt.Errorf("%w: brokerages.%s.monthly_fee must be non-negative", apperrors.ErrConfigInvalid, name)
		}
	}
	return nil
}

// CoachAvailable returns true if the LLM coach can be called.
func (c *Config) CoachAvailable() bool {
	return c.Coach.Enabled && c.Credentials.OpenAI.APIKey != ""
}
