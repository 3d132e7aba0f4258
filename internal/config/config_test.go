package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, 30, cfg.LookbackDays)
	assert.Equal(t, 6, cfg.TopLimit)
	assert.Equal(t, "date", cfg.TimelineGroup)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "", cfg.DigestSchedule)
	assert.False(t, cfg.NotificationsEnabled())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://sentiment.internal:9000")
	t.Setenv("LOOKBACK_DAYS", "7")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("DIGEST_SCHEDULE", "daily")
	t.Setenv("TEAMS_WEBHOOK_URL", "https://example.com/hook")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://sentiment.internal:9000", cfg.BackendURL)
	assert.Equal(t, 7, cfg.LookbackDays)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "daily", cfg.DigestSchedule)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.NotificationsEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "Relative backend URL",
			env:  map[string]string{"BACKEND_URL": "localhost"},
		},
		{
			name: "Zero lookback",
			env:  map[string]string{"LOOKBACK_DAYS": "0"},
		},
		{
			name: "Negative limit",
			env:  map[string]string{"TOP_LIMIT": "-1"},
		},
		{
			name: "Unknown grouping",
			env:  map[string]string{"TIMELINE_GROUP_BY": "month"},
		},
		{
			name: "Unknown schedule",
			env:  map[string]string{"DIGEST_SCHEDULE": "hourly"},
		},
		{
			name: "Schedule without notification channel",
			env:  map[string]string{"DIGEST_SCHEDULE": "weekly"},
		},
		{
			name: "Email without SMTP",
			env:  map[string]string{"NOTIFICATION_EMAIL": "team@example.com"},
		},
		{
			name: "Bad timezone",
			env:  map[string]string{"TIMEZONE": "Mars/Olympus"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
