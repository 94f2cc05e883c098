// SPDX-License-Identifier: EPL-2.0

// Package logging builds the zap loggers used across audplay.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel names the environment variable read by DefaultConfig.
const EnvLevel = "AUDPLAY_LOG_LEVEL"

// Config holds logger configuration.
type Config struct {
	Level  zapcore.Level
	Format string // "console" or "json"
}

// New creates a logger writing to stderr.
func New(cfg Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.Level)
	zc.Sampling = nil

	if cfg.Format != "json" {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	// caller info at debug level only
	if cfg.Level > zapcore.DebugLevel {
		zc.DisableCaller = true
	}

	return zc.Build()
}

// DefaultConfig returns the default logger configuration.
// Parses the AUDPLAY_LOG_LEVEL environment variable to set the log level.
// Valid values: DEBUG, INFO, WARN, WARNING, ERROR
// Default: INFO
func DefaultConfig() Config {
	level, _ := ParseLevel(os.Getenv(EnvLevel))

	return Config{
		Level:  level,
		Format: "console",
	}
}

// ParseLevel maps a level name to a zap level. Unknown or empty names
// yield INFO and false.
func ParseLevel(name string) (zapcore.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return zapcore.DebugLevel, true
	case "INFO":
		return zapcore.InfoLevel, true
	case "WARN", "WARNING":
		return zapcore.WarnLevel, true
	case "ERROR":
		return zapcore.ErrorLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}
