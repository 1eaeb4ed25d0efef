package logger

import (
	"io"
	stdlog "log"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

type (
	Level string

	// Logger is the structured logger used across the extraction pipeline.
	Logger interface {
		Debug(msg string, keyvals ...any)
		Info(msg string, keyvals ...any)
		Warn(msg string, keyvals ...any)
		Error(msg string, keyvals ...any)
		With(keyvals ...any) Logger
	}

	charmLogger struct {
		l *charmlog.Logger
	}

	nopLogger struct{}
)

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// ParseLevel maps a configuration string onto a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case DebugLevel:
		return DebugLevel
	case WarnLevel:
		return WarnLevel
	case ErrorLevel:
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func (lv Level) charm() charmlog.Level {
	switch lv {
	case DebugLevel:
		return charmlog.DebugLevel
	case WarnLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

type Config struct {
	Level      Level
	Output     io.Writer
	JSON       bool
	TimeFormat string
	Prefix     string
}

// DefaultConfig writes to stderr; stdout belongs to the stdio transport.
func DefaultConfig() *Config {
	return &Config{
		Level:      InfoLevel,
		Output:     os.Stderr,
		TimeFormat: "15:04:05",
	}
}

func New(cfg *Config) Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	l := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           cfg.Level.charm(),
		Prefix:          cfg.Prefix,
	})
	if cfg.JSON {
		l.SetFormatter(charmlog.JSONFormatter)
	}
	return &charmLogger{l: l}
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return nopLogger{}
}

func (c *charmLogger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c *charmLogger) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c *charmLogger) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c *charmLogger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }

func (c *charmLogger) With(keyvals ...any) Logger {
	return &charmLogger{l: c.l.With(keyvals...)}
}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func (n nopLogger) With(...any) Logger { return n }

// StandardLog adapts l for libraries that only accept a *log.Logger. Every
// line is logged at level.
func StandardLog(l Logger, level Level) *stdlog.Logger {
	if c, ok := l.(*charmLogger); ok {
		return c.l.StandardLog(charmlog.StandardLogOptions{ForceLevel: level.charm()})
	}
	return stdlog.New(lineWriter{l: l, level: level}, "", 0)
}

type lineWriter struct {
	l     Logger
	level Level
}

func (w lineWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	switch w.level {
	case DebugLevel:
		w.l.Debug(msg)
	case InfoLevel:
		w.l.Info(msg)
	case WarnLevel:
		w.l.Warn(msg)
	default:
		w.l.Error(msg)
	}
	return len(p), nil
}
