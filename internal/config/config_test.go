package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gradesync.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Len(t, cfg.Sheets.Layout.Offsets, DefaultBlockCount)
	assert.Equal(t, 162, cfg.Sheets.Layout.Offsets[9])
	assert.Equal(t, DefaultAdviceModel, cfg.Advice.Model)
	assert.Equal(t, "_", cfg.Sheets.CacheBustParam)
	assert.Zero(t, cfg.Sheets.HTTPTimeout)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9000
sheets:
  http_timeout: 5s
access:
  allowed_user_ids: [11, 12]
  admin_id: 11
logging:
  level: debug
`)
	t.Setenv("GRADESYNC_SERVER_PORT", "9100")
	t.Setenv("GRADESYNC_ADVICE_API_KEY", "secret")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Sheets.HTTPTimeout)
	assert.Equal(t, []int64{11, 12}, cfg.Access.AllowedUserIDs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "secret", cfg.Advice.APIKey)
	assert.Equal(t, DefaultGradesURL, cfg.Sheets.GradesURL)
}

func TestLoadEnvList(t *testing.T) {
	path := writeConfigFile(t, "{}\n")
	t.Setenv("GRADESYNC_ACCESS_ALLOWED_USER_IDS", "1,2,3")
	t.Setenv("GRADESYNC_SHEETS_LAYOUT_OFFSETS", "0,20,40")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, cfg.Access.AllowedUserIDs)
	assert.Equal(t, []int{0, 20, 40}, cfg.Sheets.Layout.Offsets)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad port", body: "server:\n  port: 70000\n"},
		{name: "bad url", body: "sheets:\n  grades_url: not a url\n"},
		{name: "bad level", body: "logging:\n  level: loud\n"},
		{name: "bad exporter", body: "telemetry:\n  trace_exporter: jaeger\n"},
		{name: "short blocks", body: "sheets:\n  layout:\n    height: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestAccessConfig(t *testing.T) {
	a := AccessConfig{AllowedUserIDs: []int64{5, 6}, AdminID: 1}

	assert.True(t, a.IsAllowed(1))
	assert.True(t, a.IsAllowed(5))
	assert.False(t, a.IsAllowed(7))
	assert.True(t, a.IsAdmin(1))
	assert.False(t, a.IsAdmin(5))

	assert.False(t, AccessConfig{}.IsAdmin(0))
	assert.False(t, AccessConfig{}.IsAllowed(0))
}
