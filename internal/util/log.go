package util

import (
	"strings"

	"github.com/rs/zerolog"
)

// LogLevelFromString returns the zerolog level for s, defaulting to debug.
func LogLevelFromString(s string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.DebugLevel
	}

	return l
}
