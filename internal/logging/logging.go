// Package logging threads a process-wide structured logger through
// request-scoped contexts.
package logging

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// Base is the process-wide logger; New wires it from configuration.
var Base = logrus.New()

// New configures Base's level and formatter from a textual level name.
func New(level string) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	Base = l
	return l
}

// WithFields returns a context carrying a logger annotated with fields,
// inheriting any fields already attached to ctx.
func WithFields(ctx context.Context, fields logrus.Fields) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).WithFields(fields))
}

// From extracts the request-scoped logger from ctx, falling back to Base.
func From(ctx context.Context) *logrus.Entry {
	if e, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
		return e
	}
	return logrus.NewEntry(Base)
}
