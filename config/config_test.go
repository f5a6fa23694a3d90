package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	AppConfig = Config{}
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	backupDir := filepath.Join(t.TempDir(), "backups")
	path := writeConfigFile(t, "backup:\n  dir: \""+backupDir+"\"\n")

	t.Setenv("ADMIN_USER", "")
	t.Setenv("ADMIN_PASSWORD", "")

	require.NoError(t, LoadConfig(path))

	assert.Equal(t, "8080", AppConfig.Server.Port)
	assert.Equal(t, "Asia/Tokyo", AppConfig.Checkin.Timezone)
	assert.Equal(t, 20, AppConfig.Checkin.HistoryLimit)
	assert.Equal(t, 30*time.Minute, AppConfig.Checkin.SessionTTL)
	assert.Equal(t, 10*time.Second, AppConfig.SMS.Timeout)
	assert.Equal(t, "admin", AppConfig.Admin.User)
	assert.Empty(t, AppConfig.Admin.Password)

	info, err := os.Stat(backupDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "backup directory should be created")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	backupDir := filepath.Join(t.TempDir(), "backups")
	path := writeConfigFile(t, `
server:
  port: "9090"
checkin:
  timezone: "UTC"
  session_ttl: "5m"
backup:
  dir: "`+backupDir+`"
qr:
  confirm_base_url: "http://example.invalid/checkin"
`)

	t.Setenv("ADMIN_USER", "ops")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("CONFIRM_BASE_URL", "https://anpi.example.jp/checkin")

	require.NoError(t, LoadConfig(path))

	assert.Equal(t, "9090", AppConfig.Server.Port)
	assert.Equal(t, "UTC", AppConfig.Checkin.Timezone)
	assert.Equal(t, 5*time.Minute, AppConfig.Checkin.SessionTTL)
	assert.Equal(t, "ops", AppConfig.Admin.User)
	assert.Equal(t, "hunter2", AppConfig.Admin.Password)
	assert.Equal(t, "https://anpi.example.jp/checkin", AppConfig.QR.ConfirmBaseURL)
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	path := writeConfigFile(t, `
checkin:
  session_ttl: "soon"
backup:
  dir: "`+filepath.Join(t.TempDir(), "backups")+`"
`)
	t.Setenv("ADMIN_PASSWORD", "")

	err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session_ttl")
}

func TestLoadConfigMissingFile(t *testing.T) {
	err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
