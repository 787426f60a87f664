// Package logger carries a logrus entry through a context.
package logger

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

var std = logrus.NewEntry(logrus.StandardLogger())

// New builds the process logger. verbose switches from warnings-only to
// debug output.
func New(out io.Writer, verbose bool) *logrus.Entry {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !verbose,
		FullTimestamp:    true,
	})
	l.SetLevel(logrus.WarnLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return logrus.NewEntry(l)
}

// WithContext returns a copy of ctx carrying log.
func WithContext(ctx context.Context, log *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the entry stored in ctx, or the standard logger.
func FromContext(ctx context.Context) *logrus.Entry {
	if log, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok && log != nil {
		return log
	}
	return std
}
