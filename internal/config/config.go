// Package config manages application configuration from environment
// variables, an optional config.yaml file, and built-in defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration. Values can be set via
// environment variables prefixed with BOT_ (e.g. BOT_TELEGRAM_TOKEN) or
// through config.yaml.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Tenor     TenorConfig     `mapstructure:"tenor"`
	Store     StoreConfig     `mapstructure:"store"`
	Passive   PassiveConfig   `mapstructure:"passive"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds chat transport settings.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// TenorConfig holds the GIF search provider settings.
type TenorConfig struct {
	APIKey     string        `mapstructure:"api_key"     validate:"required"`
	BaseURL    string        `mapstructure:"base_url"    validate:"required,url"`
	Timeout    time.Duration `mapstructure:"timeout"     validate:"min=1s,max=2m"`
	MaxRetries int           `mapstructure:"max_retries" validate:"min=0,max=5"`
	RetryDelay time.Duration `mapstructure:"retry_delay" validate:"min=0"`
}

// StoreConfig holds durable state settings.
type StoreConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// TriggerConfig maps one passive-mode trigger word to its candidate search
// queries. Table order is match order.
type TriggerConfig struct {
	Word    string   `mapstructure:"word"    validate:"required"`
	Queries []string `mapstructure:"queries" validate:"required,min=1"`
}

// PassiveConfig bounds passive-mode firing.
type PassiveConfig struct {
	RateLimit  int             `mapstructure:"rate_limit"  validate:"min=1,max=9"`
	RateWindow time.Duration   `mapstructure:"rate_window" validate:"min=1s"`
	Triggers   []TriggerConfig `mapstructure:"triggers"    validate:"dive"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig holds the scheduled task table, keyed by task name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// Load loads and validates configuration from:
// 1. Default values
// 2. config.yaml file
// 3. BOT_* environment variables
func Load() (*Config, error) {
	setDefaults()

	if err := readConfigFile(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if len(cfg.Passive.Triggers) == 0 {
		cfg.Passive.Triggers = DefaultTriggers()
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// readConfigFile initializes viper and reads the optional config file.
func readConfigFile() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("BOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay, defaults and env cover everything.
	}

	return nil
}

// setDefaults sets default values for optional configuration parameters.
func setDefaults() {
	viper.SetDefault("log.level", DefaultLogLevel)
	viper.SetDefault("log.json", DefaultLogJSON)

	viper.SetDefault("tenor.base_url", DefaultTenorBaseURL)
	viper.SetDefault("tenor.timeout", DefaultTenorTimeout)
	viper.SetDefault("tenor.max_retries", DefaultTenorMaxRetries)
	viper.SetDefault("tenor.retry_delay", DefaultTenorRetryDelay)

	viper.SetDefault("store.path", DefaultStorePath)

	viper.SetDefault("passive.rate_limit", DefaultPassiveRateLimit)
	viper.SetDefault("passive.rate_window", DefaultPassiveRateWindow)

	viper.SetDefault("scheduler.tasks", map[string]any{
		"scheduled_posts": map[string]any{
			"enabled":  true,
			"schedule": DefaultPostPollSchedule,
		},
	})
}
