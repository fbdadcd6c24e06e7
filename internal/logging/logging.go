// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Stderr selects standard error instead of a log file
const Stderr = "-"

// Output is the destination the logger writes to
type Output struct {
	file *os.File
	path string
}

// Setup points the logger at path (or stderr for "-") with the given level.
// The dialog owns the terminal, so the daemon normally logs to a file.
func Setup(level, path string) (*Output, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(lvl)

	if path == "" || path == Stderr {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		log.SetOutput(os.Stderr)
		return &Output{path: Stderr}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: true})
	log.SetOutput(f)
	return &Output{file: f, path: path}, nil
}

// Path returns the log file path, or "-" for stderr
func (o *Output) Path() string {
	return o.path
}

// Flush commits the log file to disk
func (o *Output) Flush() error {
	if o.file == nil {
		return nil
	}
	return o.file.Sync()
}

// Close restores stderr output and closes the file
func (o *Output) Close() error {
	if o.file == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := o.file.Close()
	o.file = nil
	return err
}

// Discard silences the logger, used by client commands that print to stdout
func Discard() {
	log.SetOutput(io.Discard)
}
