package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"slack-mcp/internal/directory"
	"slack-mcp/internal/metrics"
	"slack-mcp/internal/vacation"
)

// CheckVacationTool is the name the vacation check is registered under.
const CheckVacationTool = "slack_check_vacation_status"

var checkVacationTool = Tool{
	Name:        CheckVacationTool,
	Description: "Check if a Slack user is on vacation based on their profile status",
	InputSchema: json.RawMessage(`{
		"type": "object",
		"properties": {
			"email": {"type": "string", "format": "email", "description": "Email address of the Slack user"}
		},
		"required": ["email"]
	}`),
}

type checkVacationArgs struct {
	Email string `json:"email"`
}

// invoke decodes raw tool arguments and runs the vacation check. Every call is
// counted and timed regardless of transport.
func (s *Server) invoke(ctx context.Context, transport string, raw json.RawMessage) (*vacation.Result, error) {
	id := uuid.NewString()
	ctx = vacation.WithInvocationID(ctx, id)
	start := time.Now()

	res, err := s.checkVacation(ctx, raw)

	elapsed := time.Since(start)
	result := outcome(err)
	metrics.ToolLatency.WithLabelValues(CheckVacationTool).Observe(elapsed.Seconds())
	metrics.ToolInvocations.WithLabelValues(CheckVacationTool, transport, result).Inc()
	s.log.Debugw("Tool invocation",
		"tool", CheckVacationTool,
		"invocation", id,
		"transport", transport,
		"outcome", result,
		"duration", elapsed,
	)
	return res, err
}

func (s *Server) checkVacation(ctx context.Context, raw json.RawMessage) (*vacation.Result, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	var args checkVacationArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		verr := &vacation.ValidationError{
			Field:   "email",
			Value:   string(raw),
			Message: "arguments must be an object with a string email",
		}
		s.log.Warnw("Error checking vacation status", "invocation", vacation.InvocationID(ctx), "error", verr)
		return nil, verr
	}
	return s.checker.CheckVacationStatus(ctx, args.Email)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, vacation.ErrInvalidEmail):
		return "invalid"
	case errors.Is(err, directory.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, directory.ErrProfileUnavailable):
		return "profile_unavailable"
	default:
		return "error"
	}
}

// statusFor maps handler errors onto HTTP status codes for /mcp/call.
func statusFor(err error) int {
	switch {
	case errors.Is(err, vacation.ErrInvalidEmail):
		return http.StatusBadRequest
	case errors.Is(err, directory.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, directory.ErrProfileUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
