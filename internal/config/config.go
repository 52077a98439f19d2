// Package config loads pipeline configuration from the environment.
package config

import (
	"github.com/spf13/viper"

	"github.com/paydata/payplan/pkg/payplan"
)

// Config stores all configuration for the pay plan pipeline.
type Config struct {
	BaseURL       string `mapstructure:"PAYPLAN_BASE_URL"`
	Output        string `mapstructure:"PAYPLAN_OUTPUT"`
	PageSize      int    `mapstructure:"PAYPLAN_PAGE_SIZE"`
	MinIntervalMs int    `mapstructure:"PAYPLAN_MIN_INTERVAL_MS"`
	LogLevel      string `mapstructure:"PAYPLAN_LOG_LEVEL"`
	LogPretty     bool   `mapstructure:"PAYPLAN_LOG_PRETTY"`
	PreviewRows   int    `mapstructure:"PAYPLAN_PREVIEW_ROWS"`
}

// Load reads configuration from a .env file or environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// The .env file is optional; environment variables alone are enough.
	_ = viper.ReadInConfig()

	viper.SetDefault("PAYPLAN_BASE_URL", payplan.DefaultBaseURL)
	viper.SetDefault("PAYPLAN_OUTPUT", "data/payplan.json")
	viper.SetDefault("PAYPLAN_PAGE_SIZE", payplan.DefaultPageSize)
	viper.SetDefault("PAYPLAN_MIN_INTERVAL_MS", 0)
	viper.SetDefault("PAYPLAN_LOG_LEVEL", "info")
	viper.SetDefault("PAYPLAN_LOG_PRETTY", true)
	viper.SetDefault("PAYPLAN_PREVIEW_ROWS", 10)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
