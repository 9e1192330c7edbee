// Package logger owns the process-wide zap logger.
package logger

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

type ctxKey struct{}

// Config holds logger configuration
type Config struct {
	Debug bool
	// Level overrides the level implied by Debug ("debug", "info", "warn", "error")
	Level string
	// Format is "json" or "console"; empty picks console in debug mode
	Format string
	// OutputPaths defaults to stderr
	OutputPaths []string
}

// Initialize builds the global logger from cfg.
func Initialize(cfg Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	log = l
	mu.Unlock()
	return nil
}

// New builds a logger from cfg without installing it.
func New(cfg Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Debug {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	switch cfg.Format {
	case "":
	case "json", "console":
		zapConfig.Encoding = cfg.Format
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
	if len(cfg.OutputPaths) > 0 {
		zapConfig.OutputPaths = cfg.OutputPaths
	}
	return zapConfig.Build()
}

// Default returns the global logger
func Default() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Named returns the global logger tagged with a component name
func Named(component string) *zap.Logger {
	return Default().With(zap.String("component", component))
}

// WithContext returns a copy of ctx carrying l
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or the global logger
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
			return l
		}
	}
	return Default()
}

// Sync flushes the global logger
func Sync() {
	_ = Default().Sync()
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	Default().Info(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	Default().Warn(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	Default().Debug(msg, fields...)
}

// Error logs an error message
func Error(err error, fields ...zap.Field) {
	if err != nil {
		Default().Error(err.Error(), fields...)
	} else {
		Default().Error("error occurred", fields...)
	}
}
