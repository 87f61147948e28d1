// Package directory provides a minimal client for the Slack user directory.
package directory

import (
	"context"
	"net/http"
	"strings"

	"github.com/slack-go/slack"
	"golang.org/x/time/rate"
)

// API is the part of *slack.Client the directory needs.
type API interface {
	GetUserByEmailContext(ctx context.Context, email string) (*slack.User, error)
	GetUserProfileContext(ctx context.Context, params *slack.GetUserProfileParameters) (*slack.UserProfile, error)
}

// User is a resolved directory entry.
type User struct {
	ID string
}

// Profile holds the profile fields used for status checks. StatusText is empty
// when Slack omits it.
type Profile struct {
	StatusText string
}

// Client is a thin typed facade over the Slack users API.
type Client struct {
	API     API
	Limiter *rate.Limiter // nil means unlimited
}

// New returns a client authenticated with the given bot token. An empty baseURL
// keeps the slack-go default; a nil httpClient keeps the slack-go default client.
func New(baseURL, token string, httpClient *http.Client) *Client {
	var opts []slack.Option
	if baseURL != "" {
		opts = append(opts, slack.OptionAPIURL(strings.TrimRight(baseURL, "/")+"/"))
	}
	if httpClient != nil {
		opts = append(opts, slack.OptionHTTPClient(httpClient))
	}
	return &Client{API: slack.New(token, opts...)}
}

// NewLimiter paces outbound calls to perMinute requests. It returns nil when
// perMinute is not positive.
func NewLimiter(perMinute float64) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perMinute/60), int(perMinute/60)+1)
}

// ResolveUserByEmail looks up the user owning email with a single
// users.lookupByEmail call.
func (c *Client) ResolveUserByEmail(ctx context.Context, email string) (*User, error) {
	if err := c.wait(ctx); err != nil {
		return nil, &UserNotFoundError{Email: email, Err: err}
	}
	u, err := c.API.GetUserByEmailContext(ctx, email)
	if err != nil {
		return nil, &UserNotFoundError{Email: email, Err: err}
	}
	if u == nil || u.ID == "" {
		return nil, &UserNotFoundError{Email: email}
	}
	return &User{ID: u.ID}, nil
}

// FetchProfileStatus reads the profile of userID with a single
// users.profile.get call.
func (c *Client) FetchProfileStatus(ctx context.Context, userID string) (*Profile, error) {
	if err := c.wait(ctx); err != nil {
		return nil, &ProfileUnavailableError{UserID: userID, Err: err}
	}
	p, err := c.API.GetUserProfileContext(ctx, &slack.GetUserProfileParameters{UserID: userID})
	if err != nil {
		return nil, &ProfileUnavailableError{UserID: userID, Err: err}
	}
	if p == nil {
		return nil, &ProfileUnavailableError{UserID: userID}
	}
	return &Profile{StatusText: p.StatusText}, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.Limiter == nil {
		return nil
	}
	return c.Limiter.Wait(ctx)
}
