package utils

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides leveled logging throughout the application.
// It keeps the printf-style call sites and delegates to zerolog underneath.
type Logger struct {
	z zerolog.Logger
}

// NewLoggerWithLevel creates a console Logger with the given minimum level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func NewLoggerWithLevel(level string) *Logger {
	out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05"}
	return newLogger(out, level)
}

// NewNopLogger discards everything. Used by tests.
func NewNopLogger() *Logger {
	return &Logger{z: zerolog.Nop()}
}

func newLogger(w io.Writer, level string) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return &Logger{z: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}
}

// Zerolog exposes the underlying logger for structured fields.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.z
}

func (l *Logger) Info(format string, args ...any) {
	l.z.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.z.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.z.Error().Msgf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.z.Debug().Msgf(format, args...)
}
