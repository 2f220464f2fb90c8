// Package logging adapts logrus to the storefront.Logger interface.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-storefront"
)

// Config controls level, format and destination
type Config struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Logger implements storefront.Logger. Arguments after the message are
// read as key value pairs and become logrus fields.
type Logger struct {
	entry *logrus.Entry
}

var _ storefront.Logger = (*Logger)(nil)

// New builds a logrus backed logger from cfg
func New(cfg Config) (*Logger, error) {
	l := logrus.New()

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	l.SetLevel(lvl)

	switch strings.ToLower(cfg.Format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	l.SetOutput(output(cfg.Output))

	return Wrap(l), nil
}

// Wrap adapts an existing logrus logger
func Wrap(l *logrus.Logger) *Logger {
	return &Logger{entry: logrus.NewEntry(l)}
}

// With returns a child logger carrying the given key value pairs
func (l *Logger) With(args ...any) *Logger {
	return &Logger{entry: l.entry.WithFields(fields(args))}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.entry.WithFields(fields(args)).Debug(msg)
}

func (l *Logger) Info(msg string, args ...any) {
	l.entry.WithFields(fields(args)).Info(msg)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.entry.WithFields(fields(args)).Warn(msg)
}

func (l *Logger) Error(msg string, args ...any) {
	l.entry.WithFields(fields(args)).Error(msg)
}

func output(name string) io.Writer {
	switch strings.ToLower(name) {
	case "stderr":
		return os.Stderr
	default:
		return os.Stdout
	}
}

func fields(args []any) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 >= len(args) {
			f["!BADKEY"] = args[i]
			break
		}
		if err, ok := args[i+1].(error); ok {
			f[key] = err.Error()
			continue
		}
		f[key] = args[i+1]
	}
	return f
}
