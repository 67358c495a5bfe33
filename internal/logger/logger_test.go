package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level LogLevel, isDev bool) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(zap.New(core), level, isDev), logs
}

func TestRedaction(t *testing.T) {
	l, logs := observed(INFO, false)

	l.Info("invitation created",
		"email", "alice@example.com",
		"user_id", 42,
		"slug", "abcdefghijklmnopqrstuvwxyz012345",
		"password", "hunter22",
		"fridge_id", 7,
	)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()

	assert.Equal(t, "a****e@example.com", fields["email"])
	assert.Equal(t, hashUserID(42), fields["user_id"])
	assert.Equal(t, "abcd****", fields["slug"])
	assert.Equal(t, "[REDACTED]", fields["password"])
	assert.EqualValues(t, 7, fields["fridge_id"])
}

func TestDevDebugKeepsRawValues(t *testing.T) {
	l, logs := observed(DEBUG, true)

	l.Debug("session", "session_id", "0123456789abcdef")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "0123456789abcdef", logs.All()[0].ContextMap()["session_id"])
}

func TestLevelFiltering(t *testing.T) {
	l, logs := observed(WARN, false)

	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("kept")
	l.Error("kept", "error", errors.New("boom"))

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "boom", logs.All()[1].ContextMap()["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("Warn"))
	assert.Equal(t, INFO, ParseLevel("nonsense"))
}
