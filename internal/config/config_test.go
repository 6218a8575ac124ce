package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	conf, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", conf.Server.Listen)
	assert.Equal(t, "calendar.db", conf.Database.Path)
	assert.Equal(t, "20:00", conf.Notify.At)
	assert.Equal(t, 100, conf.Notify.MailboxCapacity)
	assert.Equal(t, "info", conf.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
server:
  listen: ":9090"
database:
  path: /tmp/test.db
notify:
  at: "08:30"
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", conf.Server.Listen)
	assert.Equal(t, "/tmp/test.db", conf.Database.Path)
	assert.Equal(t, "08:30", conf.Notify.At)
	assert.Equal(t, "debug", conf.Log.Level)
}

func TestLoadRejectsBadNotifyTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("notify:\n  at: \"2000\"\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
