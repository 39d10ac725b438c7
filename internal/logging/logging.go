// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// New creates a logger writing to w in the given format ("text" or "json").
func New(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", format)
}

// Setup creates the process logger writing to w, also appending to logFile
// when it is set. A nil w logs to the file alone, or nowhere. The cleanup
// function closes the file.
func Setup(w io.Writer, level slog.Level, format, logFile string) (*slog.Logger, func(), error) {
	cleanup := func() {}

	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		if w != nil {
			w = io.MultiWriter(w, f)
		} else {
			w = f
		}
		cleanup = func() { _ = f.Close() }
	}
	if w == nil {
		w = io.Discard
	}

	logger, err := New(w, level, format)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return logger, cleanup, nil
}
