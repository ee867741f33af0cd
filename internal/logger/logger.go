package logger

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

// New builds a logrus logger writing to stdout. Unknown levels fall back to
// info, unknown formats to text.
func New(level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		l.Warnf("Unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	return l
}

type ctxKey struct{}

// WithContext returns a copy of ctx carrying entry.
func WithContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// FromContext returns the entry stored by WithContext, or an entry on the
// standard logger when there is none.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok && entry != nil {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
