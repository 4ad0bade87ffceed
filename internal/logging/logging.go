// Package logging builds the application's zap logger.
package logging

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ayurai/ayurai/internal/store"
)

// Stderr is the Options.File value that sends logs to standard error.
const Stderr = "stderr"

// Options configures New.
type Options struct {
	// Level is a zap level name ("debug", "info", "warn", "error").
	Level string
	// Verbose forces debug level.
	Verbose bool
	// File is the log destination. Empty means ayurai.log in the data dir.
	File string
}

// New builds a JSON production logger. The TUI owns the terminal, so the
// default destination is a file rather than stderr.
func New(opts Options) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = l
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	path, err := Path(opts.File)
	if err != nil {
		return nil, err
	}
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// Path resolves the log destination, creating the data dir if needed.
func Path(file string) (string, error) {
	switch file {
	case Stderr:
		return Stderr, nil
	case "":
		dir, err := store.DataDir()
		if err != nil {
			return "", err
		}
		p := filepath.Join(dir, "ayurai.log")
		return p, store.EnsureDir(p)
	default:
		return file, store.EnsureDir(file)
	}
}
