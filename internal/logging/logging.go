// Package logging builds the prefixed loggers used across fessctl.
package logging

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// rotation limits for the optional log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// New returns a logger writing to stderr with the given bracketed prefix.
// When file is non-empty, output is additionally teed into that file with
// rotation.
func New(prefix, file string) *log.Logger {
	var w io.Writer = os.Stderr
	if file != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		})
	}
	return log.New(w, prefix, log.LstdFlags)
}
