// Package logger provides configured zerolog loggers.
package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// NewConsole returns a logger that writes human-readable output to w.
// The CLI installs this on stderr so reports on stdout stay clean.
func NewConsole(w io.Writer) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	return zerolog.New(cw).With().Timestamp().Logger()
}
