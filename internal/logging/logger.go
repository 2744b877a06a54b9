// Package logging configures the process-wide slog logger. Records go to
// stderr and are appended to .seedbed/logs/seedbed.log so failures can be
// inspected after the terminal is gone.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// FileName is the log file created inside the logs directory.
const FileName = "seedbed.log"

// Options controls logger construction.
type Options struct {
	// Verbose lowers the level to debug.
	Verbose bool
	// Dir, when set, receives an appended log file.
	Dir string
	// Stderr overrides the console writer (tests).
	Stderr io.Writer
}

// Logger bundles the slog logger with the file it writes to.
type Logger struct {
	*slog.Logger
	file *os.File
}

// New builds a text logger and installs it as the slog default.
func New(opts Options) (*Logger, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	console := opts.Stderr
	if console == nil {
		console = os.Stderr
	}

	out := console
	var file *os.File
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("logging: ensure log dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(opts.Dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: open log file: %w", err)
		}
		file = f
		out = io.MultiWriter(console, f)
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return &Logger{Logger: logger, file: file}, nil
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
