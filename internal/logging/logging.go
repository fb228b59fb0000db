// Package logging configures the process-wide logrus logger.
//
// The TUI owns the terminal, so logs always go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	nested "github.com/antonfisher/nested-logrus-formatter"
	log "github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Formatter returns the formatter used for every log line.
func Formatter(colors bool) log.Formatter {
	return &nested.Formatter{
		FieldsOrder:     []string{"module", "op", "track"},
		TimestampFormat: timestampFormat,
		HideKeys:        false,
		NoColors:        !colors,
		ShowFullLevel:   true,
	}
}

// ParseLevel parses level, falling back to info for unknown values.
func ParseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Setup directs the standard logger to the file at path.
// The returned closer must be closed on exit.
func Setup(level, path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	Configure(log.StandardLogger(), level, f, false)
	return f, nil
}

// Configure applies level, output and formatter to logger.
func Configure(logger *log.Logger, level string, out io.Writer, colors bool) {
	logger.SetOutput(out)
	logger.SetLevel(ParseLevel(level))
	logger.SetFormatter(Formatter(colors))
}

// Module returns a logger entry tagged with the component name.
func Module(name string) *log.Entry {
	return log.WithFields(log.Fields{"module": name})
}
