package cliconfig

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Int("pid", os.Getpid()).Logger()
}

// Logger returns the process logger. Its level follows zerolog's global level.
func Logger() zerolog.Logger {
	return logger
}
