// Package config provides Viper-based hierarchical configuration: defaults,
// optional yaml config file, then STMTX_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Extract struct {
		MinTextLen int `mapstructure:"min_text_len"`
	} `mapstructure:"extract"`

	OCR struct {
		Enabled bool `mapstructure:"enabled"`
		PageCap int  `mapstructure:"page_cap"`
		DPI     int  `mapstructure:"dpi"`
	} `mapstructure:"ocr"`

	Server struct {
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
}

// Load builds the configuration. A missing config file is fine; defaults and
// environment variables still apply. A .env file in the working directory is
// loaded first so container setups can ship one.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.statement-extractor")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STMTX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("extract.min_text_len", 200)
	v.SetDefault("ocr.enabled", true)
	v.SetDefault("ocr.page_cap", 2)
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("server.address", ":8080")
}

func validate(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}
	if cfg.OCR.PageCap < 1 {
		return fmt.Errorf("ocr.page_cap must be at least 1, got %d", cfg.OCR.PageCap)
	}
	if cfg.Extract.MinTextLen < 0 {
		return fmt.Errorf("extract.min_text_len must not be negative, got %d", cfg.Extract.MinTextLen)
	}
	return nil
}

// Logger builds a logrus logger from the log section.
func (c *Config) Logger() *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.ToLower(c.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
