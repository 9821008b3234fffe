package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the key/value logger used across the application.
// keysAndValues alternate between a string key and its value.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Fatal(msg string, keysAndValues ...interface{})
	With(keysAndValues ...interface{}) Logger
}

type zeroLogger struct {
	zl zerolog.Logger
}

// New builds a console logger at the given level ("debug", "info", "warn", "error").
// Unknown levels fall back to info.
func New(level string) Logger {
	return NewWithWriter(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}, level)
}

// NewJSON writes one JSON object per line, for production log shipping.
func NewJSON(level string) Logger {
	return NewWithWriter(os.Stdout, level)
}

func NewWithWriter(w io.Writer, level string) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return &zeroLogger{zl: zl}
}

// NewNop discards everything.
func NewNop() Logger {
	return &zeroLogger{zl: zerolog.Nop()}
}

func (l *zeroLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.write(l.zl.Debug(), msg, keysAndValues)
}

func (l *zeroLogger) Info(msg string, keysAndValues ...interface{}) {
	l.write(l.zl.Info(), msg, keysAndValues)
}

func (l *zeroLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.write(l.zl.Warn(), msg, keysAndValues)
}

func (l *zeroLogger) Error(msg string, keysAndValues ...interface{}) {
	l.write(l.zl.Error(), msg, keysAndValues)
}

// Fatal logs and exits the process.
func (l *zeroLogger) Fatal(msg string, keysAndValues ...interface{}) {
	l.write(l.zl.WithLevel(zerolog.FatalLevel), msg, keysAndValues)
	os.Exit(1)
}

func (l *zeroLogger) With(keysAndValues ...interface{}) Logger {
	return &zeroLogger{zl: l.zl.With().Fields(normalize(keysAndValues)).Logger()}
}

func (l *zeroLogger) write(e *zerolog.Event, msg string, keysAndValues []interface{}) {
	if e == nil {
		return
	}
	if len(keysAndValues) > 0 {
		e = e.Fields(normalize(keysAndValues))
	}
	e.Msg(msg)
}

// normalize pads an odd trailing key and stringifies non-string keys.
func normalize(keysAndValues []interface{}) []interface{} {
	out := make([]interface{}, 0, len(keysAndValues)+1)
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = "!badkey"
		}
		var value interface{}
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		}
		if err, ok := value.(error); ok && err != nil {
			value = err.Error()
		}
		out = append(out, key, value)
	}
	return out
}
