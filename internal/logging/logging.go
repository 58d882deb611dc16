// Package logging configures the diagnostic logger. Diagnostics always
// go to stderr or a rotated file — never stdout, which is reserved for
// report output.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the diagnostic logger.
type Config struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
	// File enables rotated file logging; empty means stderr only.
	// Used by watch mode, where runs are long-lived.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// New builds the logger. Never fails: a bad level falls back to info.
func New(cfg Config) *zap.SugaredLogger {
	sink := zapcore.AddSync(os.Stderr)
	if cfg.File != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    orDefault(cfg.MaxSizeMB, 20),
			MaxBackups: orDefault(cfg.MaxBackups, 3),
			MaxAge:     orDefault(cfg.MaxAgeDays, 14),
		})
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, ParseLevel(cfg.Level))
	return zap.New(core).Sugar()
}

// ParseLevel converts a string to a zap level. Unknown strings default
// to info.
func ParseLevel(s string) zapcore.Level {
	switch s {
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

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
