package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	zl zerolog.Logger
}

// New returns a logger tagged with the service name. LOG_LEVEL selects the
// minimum level, LOG_FORMAT=json switches off the console writer.
func New(service string) *Logger {
	var out io.Writer = os.Stdout
	if !strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		out = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.TimeOnly,
			NoColor:    os.Getenv("LOG_COLORS") == "false",
		}
	}

	return NewWithWriter(service, out, parseLevel(os.Getenv("LOG_LEVEL")))
}

func NewWithWriter(service string, out io.Writer, level zerolog.Level) *Logger {
	zl := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()

	return &Logger{zl: zl}
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "FATAL":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// With returns a child logger carrying an extra key/value pair.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

// Zerolog exposes the underlying logger for libraries that take one.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.zl.WithLevel(zerolog.FatalLevel).Msgf(format, args...)
	os.Exit(1)
}

// Print satisfies chi's middleware.LoggerInterface for access logs.
func (l *Logger) Print(v ...interface{}) {
	l.zl.Info().Msg(fmt.Sprint(v...))
}

// Write lets the logger stand in as an io.Writer (e.g. for http.Server.ErrorLog).
func (l *Logger) Write(p []byte) (n int, err error) {
	l.zl.Info().Msg(strings.TrimSpace(string(p)))
	return len(p), nil
}
