// Package logger configures the process-wide structured logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a key/value logger writing to out at the named level.
func New(out io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(out, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "aamctl",
	}), nil
}

// Setup installs a logger writing to stderr as the package default.
func Setup(level string) error {
	l, err := New(os.Stderr, level)
	if err != nil {
		return err
	}
	log.SetDefault(l)
	return nil
}

// RedirectToFile sends the default logger's output to path until the
// returned function is called. Full-screen views use it to keep log lines
// off the terminal.
func RedirectToFile(path string) (restore func(), err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := log.Default()
	l.SetOutput(f)
	return func() {
		l.SetOutput(os.Stderr)
		f.Close()
	}, nil
}
