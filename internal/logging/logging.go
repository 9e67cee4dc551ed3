// Package logging configures the phuslu/log loggers used by the suite.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/phuslu/log"
)

// TimeFormat is used by every console writer.
const TimeFormat = "15:04:05.000"

// Setup makes the default logger write human readable lines to w at level.
func Setup(level string, w io.Writer) {
	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: TimeFormat,
		Writer:     Console(w),
	}
}

// Console returns a writer producing aligned, human readable lines.
func Console(w io.Writer) log.Writer {
	return &log.ConsoleWriter{
		Writer:         w,
		ColorOutput:    w == os.Stderr || w == os.Stdout,
		QuoteString:    true,
		EndWithMessage: true,
	}
}

// New returns a logger writing to every writer at level.
func New(level string, writers ...log.Writer) *log.Logger {
	var w log.Writer
	switch len(writers) {
	case 0:
		w = &log.IOWriter{Writer: io.Discard}
	case 1:
		w = writers[0]
	default:
		multi := log.MultiEntryWriter(writers)
		w = &multi
	}
	return &log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: TimeFormat,
		Writer:     w,
	}
}

// OpenFile opens path for appending, creating its directory, and returns a
// JSON lines writer over it along with the file to close.
func OpenFile(path string) (log.Writer, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return &log.IOWriter{Writer: f}, f, nil
}
