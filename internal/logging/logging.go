// Package logging builds the logr.Logger handed to the library packages,
// backed by zap.
package logging

import (
	"fmt"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel keeps V(0) records, which include the sample period
// overwrite warning.
const DefaultLevel = "info"

// New returns a zap-backed logger. level is a zap level name ("debug",
// "info", "warn", "error") or a logr verbosity such as "2", which enables
// V(2) and below.
func New(level string, development bool) (logr.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return logr.Discard(), err
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}

	z, err := cfg.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("logging: build zap logger: %w", err)
	}
	return zapr.NewLogger(z), nil
}

// FromCore wraps an existing zap core.
func FromCore(core zapcore.Core) logr.Logger {
	return zapr.NewLogger(zap.New(core))
}

func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	if v, err := strconv.Atoi(level); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("logging: verbosity must not be negative, got %d", v)
		}
		return zapcore.Level(-v), nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return 0, fmt.Errorf("logging: %w", err)
	}
	return lvl, nil
}
