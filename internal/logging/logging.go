package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup initializes a zerolog.Logger based on the requested format.
// format can be "text" (human-friendly console) or "json" (structured).
func Setup(format string) zerolog.Logger {
	if format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// SetupWithLevel is Setup with a minimum level, for quieting the HTTP
// request logs in production or turning on debug locally.
func SetupWithLevel(format, level string) zerolog.Logger {
	log := Setup(format)
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return log
	}
	return log.Level(lvl)
}
