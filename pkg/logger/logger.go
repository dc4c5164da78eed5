// Package logger holds the process-wide zap logger shared by the graph
// client and the command entrypoints.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global *zap.Logger

// Init builds the global logger for the given environment. Production gets
// JSON output at info level; anything else gets a colored console logger at
// debug level.
func Init(env string) error {
	built, err := newConfig(env).Build()
	if err != nil {
		return err
	}
	global = built
	return nil
}

func newConfig(env string) zap.Config {
	if env == "production" {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// Get returns the global logger, or a throwaway development logger when
// Init has not been called (tests, mostly).
func Get() *zap.Logger {
	if global == nil {
		fallback, _ := zap.NewDevelopment()
		return fallback
	}
	return global
}

// Sync flushes any buffered log entries.
func Sync() {
	if global != nil {
		_ = global.Sync()
	}
}
