// Package logging wraps a zap sugared logger for command diagnostics.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes structured diagnostics to stderr. It satisfies
// progress.Reporter; a nil *Logger discards everything.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a console logger. Verbose enables debug output.
func New(verbose bool) (*Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	base, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return &Logger{sugar: base.Sugar()}, nil
}

// FromZap adapts an existing zap logger, mostly for tests.
func FromZap(base *zap.Logger) *Logger {
	if base == nil {
		return nil
	}
	return &Logger{sugar: base.Sugar()}
}

// With returns a child logger carrying the key/value pairs.
func (l *Logger) With(keysAndValues ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

// Debug logs a message with structured context.
func (l *Logger) Debug(msg string, keysAndValues ...any) {
	if l == nil {
		return
	}
	l.sugar.Debugw(msg, keysAndValues...)
}

// Error logs a failure with structured context.
func (l *Logger) Error(msg string, keysAndValues ...any) {
	if l == nil {
		return
	}
	l.sugar.Errorw(msg, keysAndValues...)
}

// Info logs pipeline progress at info level.
func (l *Logger) Info(format string, args ...any) {
	if l == nil {
		return
	}
	l.sugar.Info(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// Warn logs a skipped file or other recoverable problem.
func (l *Logger) Warn(format string, args ...any) {
	if l == nil {
		return
	}
	l.sugar.Warn(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// Sync flushes buffered entries.
func (l *Logger) Sync() {
	if l == nil {
		return
	}
	_ = l.sugar.Sync()
}
