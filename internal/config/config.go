package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Backend configuration
	BackendURL     string
	LookbackDays   int
	TopLimit       int
	TimelineGroup  string // "date" or "week"
	RequestTimeout time.Duration

	// Digest configuration
	DigestSchedule string // "", "daily" or "weekly"
	TimeZone       string

	// Snapshot archive configuration
	ArchiveDir       string
	ArchiveKeep      int
	StorageAccount   string
	StorageContainer string

	// Notification configuration
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		BackendURL:     getEnv("BACKEND_URL", "http://localhost:8000"),
		LookbackDays:   getIntEnv("LOOKBACK_DAYS", 30),
		TopLimit:       getIntEnv("TOP_LIMIT", 6),
		TimelineGroup:  getEnv("TIMELINE_GROUP_BY", "date"),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 30*time.Second),

		DigestSchedule: getEnv("DIGEST_SCHEDULE", ""),
		TimeZone:       getEnv("TIMEZONE", "UTC"),

		ArchiveDir:       getEnv("ARCHIVE_DIR", "snapshots"),
		ArchiveKeep:      getIntEnv("ARCHIVE_KEEP", 30),
		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "snapshots"),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", c.BackendURL)
	}

	if c.LookbackDays <= 0 {
		return fmt.Errorf("LOOKBACK_DAYS must be positive")
	}

	if c.TopLimit <= 0 {
		return fmt.Errorf("TOP_LIMIT must be positive")
	}

	if c.TimelineGroup != "date" && c.TimelineGroup != "week" {
		return fmt.Errorf("TIMELINE_GROUP_BY must be 'date' or 'week'")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	switch c.DigestSchedule {
	case "":
	case "daily", "weekly":
		if !c.NotificationsEnabled() {
			return fmt.Errorf("DIGEST_SCHEDULE requires a notification method (TEAMS_WEBHOOK_URL or NOTIFICATION_EMAIL)")
		}
	default:
		return fmt.Errorf("DIGEST_SCHEDULE must be empty, 'daily' or 'weekly'")
	}

	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// NotificationsEnabled reports whether any digest channel is configured
func (c *Config) NotificationsEnabled() bool {
	return c.TeamsWebhookURL != "" || c.NotificationEmail != ""
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
