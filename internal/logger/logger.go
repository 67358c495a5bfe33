package logger

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// Logger provides structured logging with automatic PII redaction
type Logger struct {
	mu    sync.RWMutex
	level LogLevel
	sugar *zap.SugaredLogger
	isDev bool
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Initialize sets up the default logger instance
func Initialize(level LogLevel, isDev bool) {
	once.Do(func() {
		defaultLogger = New(buildZap(isDev), level, isDev)
	})
}

// New wraps an existing zap logger. Level filtering happens here, so the zap
// core should be configured to accept everything.
func New(z *zap.Logger, level LogLevel, isDev bool) *Logger {
	return &Logger{
		level: level,
		sugar: z.Sugar(),
		isDev: isDev,
	}
}

func buildZap(isDev bool) *zap.Logger {
	var cfg zap.Config
	if isDev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.DisableStacktrace = true

	z, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return zap.NewNop()
	}
	return z
}

// GetLogger returns the default logger instance
func GetLogger() *Logger {
	if defaultLogger == nil {
		Initialize(INFO, false)
	}
	return defaultLogger
}

// SetLevel updates the log level
func SetLevel(level LogLevel) {
	if defaultLogger != nil {
		defaultLogger.mu.Lock()
		defaultLogger.level = level
		defaultLogger.mu.Unlock()
	}
}

// Sync flushes buffered entries
func Sync() {
	if defaultLogger != nil {
		_ = defaultLogger.sugar.Sync()
	}
}

func redactEmail(email string) string {
	if email == "" {
		return ""
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "****"
	}

	local := parts[0]
	domain := parts[1]

	if len(local) <= 2 {
		return "****@" + domain
	}

	return local[0:1] + "****" + local[len(local)-1:] + "@" + domain
}

func hashUserID(userID interface{}) string {
	str := fmt.Sprintf("%v", userID)
	hash := sha256.Sum256([]byte(str))
	return fmt.Sprintf("user_%x", hash[:4])
}

func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:4] + "****"
}

// redactValue redacts sensitive values based on the key name
func redactValue(key string, value interface{}) interface{} {
	keyLower := strings.ToLower(key)

	if err, ok := value.(error); ok {
		return err.Error()
	}

	valueStr := fmt.Sprintf("%v", value)

	if strings.Contains(keyLower, "password") {
		return "[REDACTED]"
	}

	if strings.Contains(keyLower, "email") || strings.Contains(valueStr, "@") {
		return redactEmail(valueStr)
	}

	if strings.Contains(keyLower, "userid") || strings.Contains(keyLower, "user_id") {
		return hashUserID(value)
	}

	// Invitation slugs grant membership, so they are treated like tokens.
	if strings.Contains(keyLower, "session") || strings.Contains(keyLower, "token") || strings.Contains(keyLower, "slug") {
		return truncateID(valueStr)
	}

	return value
}

func (l *Logger) fields(keysAndValues []interface{}) []interface{} {
	out := make([]interface{}, 0, len(keysAndValues)+1)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprintf("%v", keysAndValues[i])
		var value interface{}
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		} else {
			value = ""
		}

		// Dev mode at DEBUG keeps raw values
		if !l.isDev || l.currentLevel() > DEBUG {
			value = redactValue(key, value)
		}

		out = append(out, key, value)
	}
	return out
}

func (l *Logger) currentLevel() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *Logger) shouldLog(level LogLevel) bool {
	return level >= l.currentLevel()
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if l.shouldLog(DEBUG) {
		l.sugar.Debugw(msg, l.fields(keysAndValues)...)
	}
}

// Info logs an info message
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	if l.shouldLog(INFO) {
		l.sugar.Infow(msg, l.fields(keysAndValues)...)
	}
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	if l.shouldLog(WARN) {
		l.sugar.Warnw(msg, l.fields(keysAndValues)...)
	}
}

// Error logs an error message
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	if l.shouldLog(ERROR) {
		l.sugar.Errorw(msg, l.fields(keysAndValues)...)
	}
}

// Package-level convenience functions

func Debug(msg string, keysAndValues ...interface{}) {
	GetLogger().Debug(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...interface{}) {
	GetLogger().Info(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	GetLogger().Warn(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	GetLogger().Error(msg, keysAndValues...)
}

// ParseLevel converts a string to a LogLevel
func ParseLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}
