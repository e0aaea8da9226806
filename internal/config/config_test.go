package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "postgres:\n  dsn: postgres://x@localhost/db\n")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://x@localhost/db", c.Postgres.DSN)
	assert.Equal(t, ":8080", c.HTTP.Addr)
	assert.Equal(t, "SmartSpend API", c.App.Name)
	assert.True(t, c.Metrics.Enabled)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, c.HTTP.CORSOrigins)
	assert.Equal(t, time.UTC, c.Location())
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "http:\n  addr: \":9000\"\napp:\n  timezone: Europe/Madrid\ntelegram:\n  chat_id: 12\n")
	t.Setenv("APP_HTTP_ADDR", ":7000")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.HTTP.Addr)
	assert.Equal(t, int64(12), c.Telegram.ChatID)
	assert.Equal(t, "Europe/Madrid", c.Location().String())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadTelegramNeedsChatID(t *testing.T) {
	path := writeConfig(t, "telegram:\n  token: \"123:abc\"\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.chat_id")

	t.Setenv("APP_TELEGRAM_CHAT_ID", "42")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), c.Telegram.ChatID)
}
