package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-air-alerts/internal/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NOTIFICATION_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Cycle.Interval)
	assert.Equal(t, time.Minute, cfg.Ingestion.RetryInterval)
	assert.True(t, cfg.Ingestion.DeleteAfterLoad)
	assert.Equal(t, AuditBackendFile, cfg.Audit.Backend)
	assert.Equal(t, 8, cfg.Notification.StartHour)
	assert.Equal(t, 20, cfg.Notification.EndHour)
	assert.Equal(t, models.DefaultScale, cfg.Notification.Scale())
	assert.False(t, cfg.Twilio.Configured())
	assert.Equal(t, 5.0, cfg.Server.RateLimit)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NOTIFICATION_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
	t.Setenv("CYCLE_INTERVAL", "15m")
	t.Setenv("INGEST_DELETE_AFTER_LOAD", "false")
	t.Setenv("AUDIT_BACKEND", "sqlite")
	t.Setenv("HISTORY_FROM_AUDIT", "true")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("SMS_RATE_PER_SECOND", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.Cycle.Interval)
	assert.False(t, cfg.Ingestion.DeleteAfterLoad)
	assert.True(t, cfg.Ingestion.HistoryFromAudit)
	assert.Equal(t, 2.5, cfg.Dispatch.RatePerSecond)
	assert.True(t, cfg.Twilio.Configured())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"SERVER_PORT": "70000"}},
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}},
		{"bad audit backend", map[string]string{"AUDIT_BACKEND": "s3"}},
		{"history needs sqlite", map[string]string{"HISTORY_FROM_AUDIT": "true"}},
		{"zero workers", map[string]string{"DISPATCH_WORKERS": "0"}},
		{"zero api rate limit", map[string]string{"SERVER_RATE_LIMIT": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NOTIFICATION_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadNotificationFile_MergesOverDefaults(t *testing.T) {
	path := writeFile(t, "notification_config.toml", `
start_hour = 7
end_hour = 21
from_number = "+441111111111"

[messages]
red = "Stay inside."
`)

	n, err := LoadNotificationFile(path)
	require.NoError(t, err)

	assert.Equal(t, 7, n.StartHour)
	assert.Equal(t, 21, n.EndHour)
	assert.Equal(t, "+441111111111", n.FromNumber)
	assert.Equal(t, "Stay inside.", n.Messages["red"])
	assert.Equal(t, DefaultNotification().Messages["green"], n.Messages["green"])
	assert.Equal(t, 50.0, n.BandWidth)
}

func TestLoadNotificationFile_ZeroStartHour(t *testing.T) {
	path := writeFile(t, "n.toml", "start_hour = 0\n")

	n, err := LoadNotificationFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, n.StartHour)
}

func TestLoadNotificationFile_Malformed(t *testing.T) {
	path := writeFile(t, "n.toml", "start_hour = = 3")

	_, err := LoadNotificationFile(path)
	assert.Error(t, err)
}

func TestNotificationValidate(t *testing.T) {
	base := DefaultNotification()
	require.NoError(t, base.validate())

	inverted := DefaultNotification()
	inverted.StartHour, inverted.EndHour = 21, 7
	assert.Error(t, inverted.validate())

	missingMessage := DefaultNotification()
	missingMessage.Levels = append(missingMessage.Levels, "purple")
	assert.Error(t, missingMessage.validate())

	duplicate := DefaultNotification()
	duplicate.Levels = []string{"green", "green"}
	assert.Error(t, duplicate.validate())
}
