package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, "fridgeshare.db", cfg.DatabasePath)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionDuration)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fridgeshare.yaml")
	content := []byte(`
database_path: /var/lib/fridgeshare/data.db
port: "9000"
environment: development
session_duration: 2h
public_url: https://fridge.example.com/
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("PORT", "9100")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/fridgeshare/data.db", cfg.DatabasePath)
	assert.Equal(t, "9100", cfg.Port, "env overrides file")
	assert.Equal(t, 2*time.Hour, cfg.SessionDuration)
	assert.Equal(t, "https://fridge.example.com", cfg.PublicURL)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadRejectsBadSessionDuration(t *testing.T) {
	t.Setenv("SESSION_DURATION", "forever")

	_, err := LoadFile("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MAILGUN_SENDER_NAME=Fridge Bot\n"), 0o600))
	t.Chdir(dir)

	// Registers a restore of the variable, then clears it for godotenv.
	t.Setenv("MAILGUN_SENDER_NAME", "")
	require.NoError(t, os.Unsetenv("MAILGUN_SENDER_NAME"))
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Fridge Bot", cfg.MailgunSenderName)
}
