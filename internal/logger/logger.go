// Package logger wraps logrus behind a small interface so packages can be
// handed a silent logger in tests.
package logger

import (
	"io"
	"os"

	"github.com/ironsheep/image-resize-mcp/internal/config"
	"github.com/sirupsen/logrus"
)

// Logger is the logging surface used across the module.
type Logger interface {
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
	SetOutput(output io.Writer)
}

// AppLogger implements Logger on top of a logrus entry.
type AppLogger struct {
	entry *logrus.Entry
}

// New builds a logger from cfg. Output goes to stderr: stdout carries
// protocol frames.
func New(cfg *config.Config) Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if cfg.DisableLogging {
		log.SetOutput(io.Discard)
	}
	return &AppLogger{entry: logrus.NewEntry(log)}
}

// NewTestLogger returns a logger that discards everything.
func NewTestLogger() Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	log.SetOutput(io.Discard)
	return &AppLogger{entry: logrus.NewEntry(log)}
}

func (l *AppLogger) Info(args ...interface{}) {
	l.entry.Info(args...)
}

func (l *AppLogger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *AppLogger) Debug(args ...interface{}) {
	l.entry.Debug(args...)
}

func (l *AppLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *AppLogger) Warn(args ...interface{}) {
	l.entry.Warn(args...)
}

func (l *AppLogger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *AppLogger) Error(args ...interface{}) {
	l.entry.Error(args...)
}

func (l *AppLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// WithField returns a child logger that tags every line with key=value.
func (l *AppLogger) WithField(key string, value interface{}) Logger {
	return &AppLogger{entry: l.entry.WithField(key, value)}
}

func (l *AppLogger) SetOutput(output io.Writer) {
	l.entry.Logger.SetOutput(output)
}
