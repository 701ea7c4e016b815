// Package logging configures zerolog for the halftime binary.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup returns a console logger on stderr at the given level.
func Setup(level string) zerolog.Logger {
	return SetupWithWriter(level, os.Stderr)
}

// SetupWithWriter writes human-readable logs to w. Unknown levels fall back
// to warn so stdout output stays clean by default.
func SetupWithWriter(level string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	consoleWriter := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true}
	logger := zerolog.New(consoleWriter).With().Timestamp().Logger().Level(lvl)
	log.Logger = logger
	return logger
}
