// Package config provides centralized configuration loaded from environment
// variables. The result is an immutable value built once at startup and
// passed into the scheduler, composer and providers.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// --------------------------------------------------------------------------
// Defaults
// --------------------------------------------------------------------------

const (
	DefaultLeadMinutes = 180
	DefaultBotName     = "F1 Reminder Bot"

	DefaultScheduleURL   = "https://api.jolpi.ca/ergast/f1/current.json"
	DefaultErgastBaseURL = "https://api.jolpi.ca/ergast/f1"
	DefaultOpenF1BaseURL = "https://api.openf1.org/v1"
	DefaultWeatherURL    = "https://api.openweathermap.org/data/2.5/forecast"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Delivery
	WebhookURL string
	BotName    string

	// Scheduling
	LeadTime    time.Duration
	RefreshCron string // empty = single pass

	// Upstream data sources
	ScheduleURL               string
	ErgastBaseURL             string
	OpenF1BaseURL             string
	WeatherURL                string
	WeatherAPIKey             string
	HTTPTimeout               time.Duration
	ProviderRequestsPerMinute int
	CacheEnabled              bool

	// Status API
	StatusAddr        string
	CORSAllowOrigins  []string
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel slog.Level

	// Warnings records every value that fell back to a default because the
	// configured one was invalid. The driver logs them at startup.
	Warnings []string
}

// Load reads configuration from environment variables with sensible defaults.
// Invalid optional values fall back with a warning; only an unparseable
// refresh cron expression is an error.
func Load() (*Config, error) {
	cfg := &Config{
		WebhookURL: envOr("DISCORD_WEBHOOK_URL", ""),
		BotName:    envOr("BOT_NAME", DefaultBotName),

		RefreshCron: strings.TrimSpace(envOr("SCHEDULE_REFRESH_CRON", "")),

		ScheduleURL:               envOr("F1_SCHEDULE_URL", DefaultScheduleURL),
		ErgastBaseURL:             strings.TrimRight(envOr("ERGAST_BASE_URL", DefaultErgastBaseURL), "/"),
		OpenF1BaseURL:             strings.TrimRight(envOr("OPENF1_BASE_URL", DefaultOpenF1BaseURL), "/"),
		WeatherURL:                envOr("WEATHER_API_URL", DefaultWeatherURL),
		WeatherAPIKey:             envOr("WEATHER_API_KEY", ""),
		HTTPTimeout:               time.Duration(envInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		ProviderRequestsPerMinute: envInt("PROVIDER_REQUESTS_PER_MINUTE", 120),
		CacheEnabled:              envBool("CACHE_ENABLED", true),

		StatusAddr:        envOr("STATUS_ADDR", ""),
		CORSAllowOrigins:  envList("CORS_ALLOW_ORIGINS", []string{"*"}),
		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,
	}

	cfg.LeadTime = cfg.leadTime(os.Getenv("NOTIFICATION_LEAD_MINUTES"))
	cfg.LogLevel = cfg.logLevel(os.Getenv("LOG_LEVEL"))

	if cfg.HTTPTimeout <= 0 {
		cfg.warnf("HTTP_TIMEOUT_SECONDS must be positive. Using default 30 seconds.")
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.ProviderRequestsPerMinute <= 0 {
		cfg.warnf("PROVIDER_REQUESTS_PER_MINUTE must be positive. Using default 120.")
		cfg.ProviderRequestsPerMinute = 120
	}

	if cfg.RefreshCron != "" {
		if _, err := cron.ParseStandard(cfg.RefreshCron); err != nil {
			return nil, fmt.Errorf("SCHEDULE_REFRESH_CRON %q: %w", cfg.RefreshCron, err)
		}
	}

	return cfg, nil
}

// LeadMinutes returns the lead time as whole minutes.
func (c *Config) LeadMinutes() int {
	return int(c.LeadTime / time.Minute)
}

// HasWebhook reports whether a delivery destination is configured.
func (c *Config) HasWebhook() bool {
	return c.WebhookURL != ""
}

func (c *Config) leadTime(raw string) time.Duration {
	def := time.Duration(DefaultLeadMinutes) * time.Minute
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.warnf("Invalid value for NOTIFICATION_LEAD_MINUTES (%q). Using default %d minutes.", raw, DefaultLeadMinutes)
		return def
	}
	if n < 0 {
		c.warnf("NOTIFICATION_LEAD_MINUTES cannot be negative. Using default %d minutes.", DefaultLeadMinutes)
		return def
	}
	return time.Duration(n) * time.Minute
}

func (c *Config) logLevel(raw string) slog.Level {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return slog.LevelInfo
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		c.warnf("Invalid LOG_LEVEL %q. Using info.", raw)
		return slog.LevelInfo
	}
	return lvl
}

func (c *Config) warnf(format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
