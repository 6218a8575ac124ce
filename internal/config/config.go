// Package config loads service configuration from a yaml file with
// environment-variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the full service configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// DatabaseConfig configures the sqlite entry store
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// NotifyConfig configures the daily reminder job
type NotifyConfig struct {
	// At is the local wall-clock firing time, "HH:MM"
	At string `mapstructure:"at"`
	// MailboxCapacity bounds the per-owner outbound mailbox
	MailboxCapacity int `mapstructure:"mailbox_capacity"`
}

// LogConfig configures logging output
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Load reads configuration from path (optional) and the CALBOT_* environment
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.listen", ":8080")
	v.SetDefault("database.path", "calendar.db")
	v.SetDefault("notify.at", "20:00")
	v.SetDefault("notify.mailbox_capacity", 100)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 14)

	v.SetEnvPrefix("CALBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func validate(conf *Config) error {
	parts := strings.Split(conf.Notify.At, ":")
	if len(parts) != 2 {
		return fmt.Errorf("invalid notify.at %q, expected HH:MM", conf.Notify.At)
	}
	if conf.Notify.MailboxCapacity <= 0 {
		return fmt.Errorf("notify.mailbox_capacity must be positive, got %d", conf.Notify.MailboxCapacity)
	}
	return nil
}
