package bootstrap

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger: human-readable in development, JSON
// elsewhere.
func NewLogger(env, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(lvl).
			With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).
		Level(lvl).
		With().Timestamp().Logger()
}
