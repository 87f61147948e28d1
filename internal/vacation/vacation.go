// Package vacation answers whether a Slack user is currently on vacation.
//
// The Checker validates the email, resolves the user through a Directory,
// reads the profile status text and applies a fixed substring heuristic. It
// knows nothing about the protocol the request arrived on.
package vacation

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"slack-mcp/internal/directory"
)

// Directory resolves users and their profiles.
type Directory interface {
	ResolveUserByEmail(ctx context.Context, email string) (*directory.User, error)
	FetchProfileStatus(ctx context.Context, userID string) (*directory.Profile, error)
}

// Result is the tool payload.
type Result struct {
	Email        string `json:"email"`
	IsOnVacation bool   `json:"isOnVacation"`
}

var markers = []string{"vacation", "out of office", "ooo"}

// IsOnVacation reports whether statusText carries one of the vacation markers.
// Matching is case-insensitive.
func IsOnVacation(statusText string) bool {
	text := strings.ToLower(statusText)
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// Checker runs vacation status checks.
type Checker struct {
	dir Directory
	log *zap.SugaredLogger
}

// NewChecker returns a Checker backed by dir.
func NewChecker(dir Directory, log *zap.SugaredLogger) *Checker {
	return &Checker{dir: dir, log: log}
}

// CheckVacationStatus resolves email and reports its vacation status. Errors
// from validation and from the directory are logged and returned unchanged.
func (c *Checker) CheckVacationStatus(ctx context.Context, email string) (*Result, error) {
	log := c.logger(ctx)
	if err := ValidateEmail(email); err != nil {
		log.Warnw("Error checking vacation status", "email", email, "error", err)
		return nil, err
	}

	user, err := c.dir.ResolveUserByEmail(ctx, email)
	if err != nil {
		log.Warnw("Error checking vacation status", "email", email, "error", err)
		return nil, err
	}

	profile, err := c.dir.FetchProfileStatus(ctx, user.ID)
	if err != nil {
		log.Warnw("Error checking vacation status", "email", email, "user", user.ID, "error", err)
		return nil, err
	}

	return &Result{Email: email, IsOnVacation: IsOnVacation(profile.StatusText)}, nil
}

func (c *Checker) logger(ctx context.Context) *zap.SugaredLogger {
	if id := InvocationID(ctx); id != "" {
		return c.log.With("invocation", id)
	}
	return c.log
}
