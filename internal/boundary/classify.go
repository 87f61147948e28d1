// Package boundary is the single process-wide sink for asynchronous errors:
// errors that surface outside any tool invocation, such as MCP session
// teardown, http.Server internals and recovered panics. Nothing reported here
// is re-raised and nothing here stops the process.
package boundary

import (
	"context"
	"errors"
	"io"
	"net"
	"regexp"
	"strings"
)

// Disposition is what the boundary does with an error.
type Disposition int

const (
	// Ignore drops the error silently.
	Ignore Disposition = iota
	// Log records the error at debug level.
	Log
	// Escalate records the error at error level and sends it to the tracker.
	Escalate
)

func (d Disposition) String() string {
	switch d {
	case Ignore:
		return "ignore"
	case Log:
		return "log"
	default:
		return "escalate"
	}
}

// TransportNoise names a family of benign transport conditions.
type TransportNoise string

const (
	// PingFailure is a keep-alive ping to a client that is already gone.
	PingFailure TransportNoise = "ping_failure"
	// ConnectionClosed is a protocol closure notice after a client disconnect.
	ConnectionClosed TransportNoise = "connection_closed"
)

var closedErrors = []error{io.EOF, io.ErrClosedPipe, net.ErrClosed, context.Canceled}

var closedPhrases = []string{
	"connection closed",
	"mcp error -32000",
	"broken pipe",
	"connection reset by peer",
	"client disconnected",
	"server is closing",
	"client is closing",
}

var pingWord = regexp.MustCompile(`\bping\b`)

var pingFailurePhrases = []string{"not connected", "failed", "timeout", "timed out", "deadline exceeded"}

// AsNoise reports whether err is transport noise and which kind.
func AsNoise(err error) (TransportNoise, bool) {
	if err == nil {
		return "", false
	}
	msg := strings.ToLower(err.Error())
	if pingWord.MatchString(msg) && containsAny(msg, pingFailurePhrases) {
		return PingFailure, true
	}
	for _, target := range closedErrors {
		if errors.Is(err, target) {
			return ConnectionClosed, true
		}
	}
	if containsAny(msg, closedPhrases) || strings.HasSuffix(msg, ": eof") {
		return ConnectionClosed, true
	}
	return "", false
}

// Classify decides the disposition of an asynchronous error.
func Classify(err error) Disposition {
	if err == nil {
		return Ignore
	}
	switch noise, _ := AsNoise(err); noise {
	case PingFailure:
		return Ignore
	case ConnectionClosed:
		return Log
	}
	return Escalate
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
