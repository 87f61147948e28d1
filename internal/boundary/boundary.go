package boundary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"go.uber.org/zap"

	"slack-mcp/internal/metrics"
	"slack-mcp/internal/tracking"
)

// Boundary logs, counts and tracks asynchronous errors.
type Boundary struct {
	log     *zap.SugaredLogger
	tracker tracking.Tracker
}

// New returns a Boundary. A nil tracker disables error tracking.
func New(log *zap.SugaredLogger, tracker tracking.Tracker) *Boundary {
	if tracker == nil {
		tracker = tracking.Noop{}
	}
	return &Boundary{log: log, tracker: tracker}
}

// Report classifies err and acts on it. It returns the disposition applied.
func (b *Boundary) Report(source string, err error) Disposition {
	d := Classify(err)
	if err == nil {
		return d
	}
	metrics.AsyncErrors.WithLabelValues(source, d.String()).Inc()

	switch d {
	case Ignore:
	case Log:
		b.log.Debugw("Client disconnected", "source", source, "reason", err)
	default:
		b.escalate(source, err)
	}
	return d
}

// Panic escalates a recovered panic value.
func (b *Boundary) Panic(source string, v any) {
	metrics.AsyncErrors.WithLabelValues(source, Escalate.String()).Inc()
	b.escalate(source, fmt.Errorf("panic: %v", v))
}

// Recover must be deferred directly. It turns a panic in the current
// goroutine into an escalated report.
func (b *Boundary) Recover(source string) {
	if v := recover(); v != nil {
		b.Panic(source, v)
	}
}

// Go runs fn on a new goroutine. Its error and any panic are reported.
func (b *Boundary) Go(source string, fn func() error) {
	go func() {
		defer b.Recover(source)
		if err := fn(); err != nil {
			b.Report(source, err)
		}
	}()
}

// Writer returns a writer that reports every written line as an error.
func (b *Boundary) Writer(source string) io.Writer {
	return lineWriter{b: b, source: source}
}

// StdLog adapts the boundary to APIs that take a *log.Logger, such as
// http.Server.ErrorLog.
func (b *Boundary) StdLog(source string) *log.Logger {
	return log.New(b.Writer(source), "", 0)
}

func (b *Boundary) escalate(source string, err error) {
	b.log.Errorw("Unhandled async error", "source", source, "error", err)
	b.tracker.CaptureError(context.Background(), err, map[string]string{"source": source})
}

type lineWriter struct {
	b      *Boundary
	source string
}

func (w lineWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			w.b.Report(w.source, errors.New(line))
		}
	}
	return len(p), nil
}
