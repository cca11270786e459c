// Package logging builds the zap logger shared by every nudge component.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects level, preset and output.
type Config struct {
	Level    string // debug, info, warn, error
	Mode     string // production or development
	Encoding string // json or console
	File     string // empty writes to stderr
}

// New builds a logger from cfg. The terminal host passes a File so log lines
// never land on the screen it draws.
func New(cfg Config) (*zap.Logger, error) {
	var zc zap.Config
	switch cfg.Mode {
	case "", "production":
		zc = zap.NewProductionConfig()
	case "development":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown logger mode %q", cfg.Mode)
	}

	if cfg.Level != "" {
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("logger level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}

	switch cfg.Encoding {
	case "":
	case "json", "console":
		zc.Encoding = cfg.Encoding
	default:
		return nil, fmt.Errorf("unknown logger encoding %q", cfg.Encoding)
	}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	}

	return zc.Build()
}

// DefaultFile returns the log file used by the terminal host:
// $XDG_STATE_HOME/nudge/nudge.log, falling back to ~/.local/state.
func DefaultFile() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "nudge", "nudge.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "nudge.log")
	}
	return filepath.Join(home, ".local", "state", "nudge", "nudge.log")
}
