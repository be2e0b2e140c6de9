// Package config loads bot settings from config.yaml and the
// environment. A .env file, when present, is merged into the
// environment first.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	BotToken        string `mapstructure:"BOT_TOKEN"`
	AdminTelegramID int64  `mapstructure:"ADMIN_TELEGRAM_ID"`

	DatabasePath string `mapstructure:"DATABASE_PATH"`
	Timezone     string `mapstructure:"TIMEZONE"`

	ReminderTime       string `mapstructure:"REMINDER_TIME"`
	ReminderRepeatMins int    `mapstructure:"REMINDER_REPEAT_AFTER_MINUTES"`
	SummaryTime        string `mapstructure:"SUMMARY_TIME"`

	SheetsWebhookURL string `mapstructure:"SHEETS_WEBHOOK_URL"`
	SheetsSecretKey  string `mapstructure:"SHEETS_SECRET_KEY"`
	WebAppURL        string `mapstructure:"WEBAPP_URL"`

	APIListenAddr string `mapstructure:"API_LISTEN_ADDR"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	Debug         bool   `mapstructure:"DEBUG"`
}

func Load() (*Config, error) {
	// A local .env overrides nothing already exported.
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Defaults register the keys so AutomaticEnv picks them up.
	viper.SetDefault("BOT_TOKEN", "")
	viper.SetDefault("ADMIN_TELEGRAM_ID", 0)
	viper.SetDefault("DATABASE_PATH", "./data/reports.db")
	viper.SetDefault("TIMEZONE", "Europe/Moscow")
	viper.SetDefault("REMINDER_TIME", "18:00")
	viper.SetDefault("REMINDER_REPEAT_AFTER_MINUTES", 30)
	viper.SetDefault("SUMMARY_TIME", "")
	viper.SetDefault("SHEETS_WEBHOOK_URL", "")
	viper.SetDefault("SHEETS_SECRET_KEY", "")
	viper.SetDefault("WEBAPP_URL", "")
	viper.SetDefault("API_LISTEN_ADDR", ":8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DEBUG", false)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the bot cannot run without.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return errors.New("BOT_TOKEN is required")
	}
	if c.AdminTelegramID == 0 {
		return errors.New("ADMIN_TELEGRAM_ID is required")
	}
	if c.WebAppURL == "" {
		return errors.New("WEBAPP_URL is required")
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("bad TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
