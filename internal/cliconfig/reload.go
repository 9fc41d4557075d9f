package cliconfig

import (
	"os"

	"github.com/rs/zerolog"
)

// LevelFromFile returns the log level the config file at path asks for.
// ok is false when the file does not set one or when a flag or environment
// variable already pins the level, since those outrank the file.
func LevelFromFile(path string, changed map[string]bool) (level zerolog.Level, ok bool, err error) {
	if changed["log-level"] || os.Getenv(EnvPrefix+"LOG_LEVEL") != "" {
		return zerolog.NoLevel, false, nil
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		return zerolog.NoLevel, false, err
	}
	if fc.LogLevel == "" {
		return zerolog.NoLevel, false, nil
	}

	level, err = zerolog.ParseLevel(fc.LogLevel)
	if err != nil {
		return zerolog.NoLevel, false, err
	}
	return level, true, nil
}
