// Package tracking forwards escalated errors to an error tracking service.
package tracking

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
)

// Tracker defines the interface for error tracking services.
type Tracker interface {
	// CaptureError sends an error to the tracking service.
	CaptureError(ctx context.Context, err error, tags map[string]string)

	// Flush waits for pending events to be sent.
	Flush(ctx context.Context) error
}

// New returns a Sentry tracker when dsn is set and a no-op tracker otherwise.
func New(dsn, environment, release string) (Tracker, error) {
	if dsn == "" {
		return Noop{}, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		Release:     release,
	})
	if err != nil {
		return nil, err
	}
	return &Sentry{hub: sentry.CurrentHub()}, nil
}

// Sentry implements Tracker via sentry-go.
type Sentry struct {
	hub *sentry.Hub
}

func (t *Sentry) CaptureError(_ context.Context, err error, tags map[string]string) {
	hub := t.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
	})
	hub.CaptureException(err)
}

func (t *Sentry) Flush(ctx context.Context) error {
	timeout := 2 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if !t.hub.Flush(timeout) {
		return context.DeadlineExceeded
	}
	return nil
}

// Noop discards everything.
type Noop struct{}

func (Noop) CaptureError(context.Context, error, map[string]string) {}

func (Noop) Flush(context.Context) error { return nil }
