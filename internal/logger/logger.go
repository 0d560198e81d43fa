// Package logger provides context-aware structured logging built on logrus.
// Components receive a *logrus.Entry through context so hosts embedding the
// widget can route diagnostics wherever they like.
package logger

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// G is shorthand for FromContext.
var G = FromContext

// L is the fallback entry used when a context carries no logger.
var L = logrus.NewEntry(newLogger())

type loggerKey struct{}

// WithLogger returns a context carrying the given entry.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, entry.WithContext(ctx))
}

// FromContext retrieves the entry stored in ctx, or the fallback L.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return L
	}
	if entry, ok := ctx.Value(loggerKey{}).(*logrus.Entry); ok {
		return entry
	}
	return L.WithContext(ctx)
}

// SetOutput redirects the fallback logger. TUI programs write logs to a file
// so diagnostics do not fight the alternate screen for the terminal.
func SetOutput(w io.Writer) {
	L.Logger.SetOutput(w)
}

// SetLevel adjusts the fallback logger's level from a string, defaulting to
// info on unknown values.
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	L.Logger.SetLevel(parsed)
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}
