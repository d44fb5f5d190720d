// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Target        TargetConfig        `yaml:"target"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Fetch         FetchConfig         `yaml:"fetch"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// TargetConfig identifies the part and store being watched.
type TargetConfig struct {
	Part     string `yaml:"part"`
	Store    string `yaml:"store"`
	BaseURL  string `yaml:"base_url"`
	Location string `yaml:"location"`
}

// ScheduleConfig defines how often the monitor checks availability.
type ScheduleConfig struct {
	CheckInterval time.Duration `yaml:"check_interval"`
}

// FetchConfig defines upstream fetch behavior.
type FetchConfig struct {
	Timeout    time.Duration `yaml:"timeout"`
	UserAgents []string      `yaml:"user_agents"`
	RateLimit  RateConfig    `yaml:"rate_limit"`
}

// RateConfig defines the polite-rate limit applied to upstream calls.
type RateConfig struct {
	PerMinute float64 `yaml:"per_minute"`
	Burst     int     `yaml:"burst"`
}

// NotificationsConfig defines notification backends.
type NotificationsConfig struct {
	Pushover PushoverConfig `yaml:"pushover"`
	Discord  DiscordConfig  `yaml:"discord"`
}

// PushoverConfig defines Pushover delivery settings.
type PushoverConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. Missing required values are a load error:
// the process must not start with an incomplete configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyTargetDefaults(&cfg.Target)
	applyScheduleDefaults(&cfg.Schedule)
	applyFetchDefaults(&cfg.Fetch)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyTargetDefaults(t *TargetConfig) {
	if t.BaseURL == "" {
		t.BaseURL = "https://www.apple.com/shop/retail/pickup-message"
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.CheckInterval == 0 {
		s.CheckInterval = 5 * time.Minute
	}
}

func applyFetchDefaults(f *FetchConfig) {
	if f.Timeout == 0 {
		f.Timeout = 10 * time.Second
	}
	if f.RateLimit.PerMinute == 0 {
		f.RateLimit.PerMinute = 12
	}
	if f.RateLimit.Burst == 0 {
		f.RateLimit.Burst = 4
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Target.Part == "" {
		errs = append(errs, fmt.Errorf("target.part is required"))
	}
	if cfg.Target.Store == "" {
		errs = append(errs, fmt.Errorf("target.store is required"))
	}
	if cfg.Schedule.CheckInterval < time.Second {
		errs = append(errs, fmt.Errorf("schedule.check_interval must be at least 1s"))
	}

	if cfg.Notifications.Pushover.Enabled {
		if cfg.Notifications.Pushover.Token == "" {
			errs = append(errs, fmt.Errorf("notifications.pushover.token is required when pushover is enabled"))
		}
		if cfg.Notifications.Pushover.UserKey == "" {
			errs = append(errs, fmt.Errorf("notifications.pushover.user_key is required when pushover is enabled"))
		}
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("notifications.discord.webhook_url is required when discord is enabled"))
	}

	return errors.Join(errs...)
}
