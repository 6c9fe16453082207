package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/daniloc96/github-members-state/internal/models"
	"github.com/google/go-github/v60/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const defaultPerPage = 100

type orgService interface {
	ListMembers(ctx context.Context, org string, opts *github.ListMembersOptions) ([]*github.User, *github.Response, error)
}

// Client lists GitHub organization members.
type Client struct {
	orgService orgService
	perPage    int
}

// Option customizes a Client.
type Option func(*Client)

// WithPerPage sets the page size used when listing members.
func WithPerPage(perPage int) Option {
	return func(c *Client) {
		if perPage > 0 {
			c.perPage = perPage
		}
	}
}

// NewClient creates a GitHub client. An empty token uses unauthenticated
// requests, which only see public organization members.
func NewClient(token string, opts ...Option) *Client {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}
	gh := github.NewClient(httpClient)

	c := &Client{orgService: gh.Organizations, perPage: defaultPerPage}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListMembers returns every member of org in API order.
// With publicOnly set, only members with public membership are listed.
func (c *Client) ListMembers(ctx context.Context, org string, publicOnly bool) ([]models.Member, error) {
	if org == "" {
		return nil, fmt.Errorf("org is required")
	}

	opts := &github.ListMembersOptions{
		PublicOnly:  publicOnly,
		ListOptions: github.ListOptions{PerPage: c.pageSize()},
	}
	result := []models.Member{}
	for {
		var (
			users []*github.User
			resp  *github.Response
			err   error
		)
		err = retryOnRateLimit(ctx, func() error {
			users, resp, err = c.orgService.ListMembers(ctx, org, opts)
			return err
		})
		if err != nil {
			logGitHubError(err, logrus.Fields{
				"operation":   "list_members",
				"org":         org,
				"page":        opts.Page,
				"public_only": publicOnly,
			})
			return nil, fmt.Errorf("listing members of %s: %w", org, err)
		}
		for _, user := range users {
			if user == nil {
				continue
			}
			result = append(result, models.Member{
				ID:        user.GetID(),
				Login:     user.GetLogin(),
				AvatarURL: user.GetAvatarURL(),
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

func (c *Client) pageSize() int {
	if c.perPage <= 0 {
		return defaultPerPage
	}
	return c.perPage
}

// HumanError turns a GitHub client error into a short message fit for display.
func HumanError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "request cancelled"
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return "rate limit exceeded"
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return "rate limit exceeded"
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return fmt.Sprintf("GitHub API error: %s", respErr.Response.Status)
	}
	return err.Error()
}

func logGitHubError(err error, fields logrus.Fields) {
	if err == nil {
		return
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		fields["status_code"] = respErr.Response.StatusCode
		fields["status"] = respErr.Response.Status
		fields["message"] = respErr.Message
		if len(respErr.Errors) > 0 {
			fields["errors"] = respErr.Errors
		}
		logrus.WithFields(fields).Debug("GitHub API error")
		return
	}
	logrus.WithFields(fields).WithError(err).Debug("GitHub API error")
}

func retryOnRateLimit(ctx context.Context, fn func() error) error {
	const maxRetries = 3
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		wait, ok := rateLimitWait(err)
		if !ok || attempt == maxRetries {
			return err
		}
		if wait > 100*time.Millisecond {
			wait = 100 * time.Millisecond
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

func rateLimitWait(err error) (time.Duration, bool) {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		wait := time.Until(rateErr.Rate.Reset.Time)
		if wait < 0 {
			return 0, true
		}
		return wait, true
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return abuseErr.GetRetryAfter(), true
	}
	return 0, false
}
