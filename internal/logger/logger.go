// Package logger holds the process-wide structured logger.
//
// Call sites use the printf-style helpers; components that take a
// *zap.Logger (HTTP middleware, services) get one from L.
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var mu sync.RWMutex

var (
	configured = zapcore.WarnLevel
	level      = zap.NewAtomicLevelAt(configured)
	base       = mustBuild(level)
	sugar      = base.Sugar()
)

func mustBuild(lvl zap.AtomicLevel) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// New returns a JSON production logger at the named level.
func New(name string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(name))
	return cfg.Build()
}

// ParseLevel maps a configured level name onto a zap level. Unknown names
// fall back to info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// SetLevel changes the configured level of the shared logger.
func SetLevel(name string) {
	lvl := ParseLevel(name)
	mu.Lock()
	configured = lvl
	mu.Unlock()
	level.SetLevel(lvl)
}

// SetVerbose switches debug output on, or back to the configured level.
func SetVerbose(verbose bool) {
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	level.SetLevel(configured)
}

// Enabled reports whether messages at the named level are written.
func Enabled(name string) bool {
	return level.Enabled(ParseLevel(name))
}

// Use replaces the shared logger. Tests pass zaptest or observer loggers.
func Use(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()
	base = l
	sugar = l.Sugar()
}

// L returns the shared logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func s() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debug logs a formatted message at debug level.
func Debug(format string, args ...any) { s().Debugf(format, args...) }

// Info logs a formatted message at info level.
func Info(format string, args ...any) { s().Infof(format, args...) }

// Warn logs a formatted message at warn level.
func Warn(format string, args ...any) { s().Warnf(format, args...) }

// Error logs a formatted message at error level.
func Error(format string, args ...any) { s().Errorf(format, args...) }

// Sync flushes buffered entries.
func Sync() {
	_ = L().Sync()
}
