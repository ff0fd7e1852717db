package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

type Options struct {
	// Path is a log file; empty writes to Output.
	Path   string
	Output io.Writer
	Level  string
	JSON   bool
}

// New returns the root logger and a close func for any file it opened.
func New(opts Options) (hclog.Logger, func() error, error) {
	out := opts.Output
	closeFn := func() error { return nil }
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}
	if out == nil {
		out = os.Stderr
	}
	level := hclog.LevelFromString(opts.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:       "chronos",
		Level:      level,
		Output:     out,
		JSONFormat: opts.JSON,
	})
	return logger, closeFn, nil
}

// Discard is used where no logger was wired, mostly in tests.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
