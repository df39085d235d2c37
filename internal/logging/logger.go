package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Log is the package-global logger configured by Init.
var Log zerolog.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the global logger. level can be "debug", "info", "warn", "error".
func Init(level string) {
	l := zerolog.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		l = zerolog.DebugLevel
	case "info":
		l = zerolog.InfoLevel
	case "warn":
		l = zerolog.WarnLevel
	case "error":
		l = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(l)
	Log = zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Get returns a pointer to the package-global logger.
func Get() *zerolog.Logger {
	return &Log
}
