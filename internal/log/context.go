// Package log provides a context-scoped logrus entry, so that fields added
// near the top of a call chain (command name, writer index) follow the
// context down into the syscall wrappers.
package log

import (
	"context"

	"github.com/sirupsen/logrus"
)

type entryContextKeyType int

const _entryContextKey entryContextKeyType = iota

// L is the default logging entry, used when a context carries no entry of
// its own. Configuring the standard logger (level, formatter) configures L.
var L = logrus.NewEntry(logrus.StandardLogger())

// G returns the logging entry stored in ctx, or L if there is none.
func G(ctx context.Context) *logrus.Entry {
	if e, ok := ctx.Value(_entryContextKey).(*logrus.Entry); ok {
		return e
	}
	return L
}

// WithContext returns a copy of ctx carrying e, and e bound to that context.
func WithContext(ctx context.Context, e *logrus.Entry) (context.Context, *logrus.Entry) {
	e = e.WithContext(ctx)
	return context.WithValue(ctx, _entryContextKey, e), e
}
