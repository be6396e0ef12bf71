// Package log builds the application logger. The TUI owns the terminal, so logs go to a file.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Options selects the log destination and severity.
type Options struct {
	Level string
	File  string
	JSON  bool
}

// Setup opens (appending) the log file and returns a logger writing to it.
// Unknown levels fall back to info. The returned closer releases the file.
func Setup(opts Options) (*logrus.Logger, io.Closer, error) {
	if opts.File == "" {
		return Discard(), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	l := logrus.New()
	l.SetOutput(f)
	if opts.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	l.SetLevel(ParseLevel(opts.Level))

	return l, f, nil
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
