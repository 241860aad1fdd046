// Package logger builds the structured loggers injected into market timings
// and the replay driver. Indicators never log.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"
)

// Options configures a logger built by New
type Options struct {
	Level   string // trace, debug, info, warn, error
	Console bool   // human readable output on stderr
	File    string // optional log file, rotated by size
}

// New creates a logger writing to the console, a file, or both
func New(opts Options) (*log.Logger, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		level = log.ParseLevel(strings.ToLower(opts.Level))
	}

	var writers log.MultiEntryWriter
	if opts.Console || opts.File == "" {
		writers = append(writers, &log.ConsoleWriter{
			Writer:         os.Stderr,
			ColorOutput:    true,
			EndWithMessage: true,
		})
	}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		writers = append(writers, &log.FileWriter{
			Filename:   opts.File,
			MaxSize:    50 * 1024 * 1024,
			MaxBackups: 5,
		})
	}

	return &log.Logger{
		Level:      level,
		TimeFormat: "2006-01-02 15:04:05",
		Writer:     &writers,
	}, nil
}

// NewWriter logs JSON lines to w; tests use it to inspect entries
func NewWriter(w io.Writer, level log.Level) *log.Logger {
	return &log.Logger{
		Level:  level,
		Writer: log.IOWriter{Writer: w},
	}
}

// Nop returns a logger that discards everything
func Nop() *log.Logger {
	return NewWriter(io.Discard, log.ErrorLevel)
}
