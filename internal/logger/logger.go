// Package logger provides context-aware structured logging for the service.
// A *logrus.Entry travels in the request context so that per-request fields
// (request id, owner id) show up on every line without explicit plumbing.
package logger

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type contextKey string

const loggerKey contextKey = "logger"

var base = logrus.New()

func init() {
	base.SetOutput(os.Stdout)
	base.SetLevel(logrus.InfoLevel)
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
}

// SetLevel adjusts the global minimum level ("debug", "info", "warn", "error")
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	base.SetLevel(parsed)
}

// EnableFileOutput routes log output to a rotating file
func EnableFileOutput(path string, maxSizeMB, maxBackups, maxAgeDays int) {
	base.SetOutput(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	})
}

// GetLogger returns the entry stored in ctx, or a plain entry on the base logger
func GetLogger(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(loggerKey).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(base)
}

// WithField returns a context whose logger carries an extra field
func WithField(ctx context.Context, key string, value interface{}) context.Context {
	entry := GetLogger(ctx).WithField(key, value)
	return context.WithValue(ctx, loggerKey, entry)
}

// WithFields returns a context whose logger carries extra fields
func WithFields(ctx context.Context, fields map[string]interface{}) context.Context {
	entry := GetLogger(ctx).WithFields(fields)
	return context.WithValue(ctx, loggerKey, entry)
}

// Debugf logs a formatted message at debug level
func Debugf(ctx context.Context, format string, args ...interface{}) {
	GetLogger(ctx).Debugf(format, args...)
}

// Info logs a message at info level
func Info(ctx context.Context, args ...interface{}) {
	GetLogger(ctx).Info(args...)
}

// Infof logs a formatted message at info level
func Infof(ctx context.Context, format string, args ...interface{}) {
	GetLogger(ctx).Infof(format, args...)
}

// Warnf logs a formatted message at warn level
func Warnf(ctx context.Context, format string, args ...interface{}) {
	GetLogger(ctx).Warnf(format, args...)
}

// Error logs a message at error level
func Error(ctx context.Context, args ...interface{}) {
	GetLogger(ctx).Error(args...)
}

// Errorf logs a formatted message at error level
func Errorf(ctx context.Context, format string, args ...interface{}) {
	GetLogger(ctx).Errorf(format, args...)
}
