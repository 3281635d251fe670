package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog instance. Call it before anything logs.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	level := zerolog.InfoLevel
	if env, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && env != zerolog.NoLevel {
		level = env
	}
	zerolog.SetGlobalLevel(level)
}
