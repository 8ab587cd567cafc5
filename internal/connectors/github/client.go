package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driven"
	"github.com/relnotes-labs/relnotes-cli/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxAttempts is the total number of attempts for transient errors.
	MaxAttempts = 3

	// RetryDelay is the base delay between retries; the actual delay
	// grows linearly with the attempt number.
	RetryDelay = time.Second
)

// Client wraps the go-github client with quota tracking and retry.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClient creates a GitHub API client. An empty token yields an
// anonymous client with a far lower quota; that is logged, not fatal.
// A per-run credential carried in a request's context overrides the
// configured token for that request.
func NewClient(token string) *Client {
	transport := &credentialTransport{base: http.DefaultTransport}
	quota := AnonymousQuota

	if token == "" {
		logger.Warn("github: no credential configured, using anonymous quota (%d/hour)", AnonymousQuota)
	} else {
		transport.auth = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   http.DefaultTransport,
		}
		quota = AuthenticatedQuota
	}

	hc := &http.Client{Timeout: DefaultTimeout, Transport: transport}
	return &Client{
		gh:          gh.NewClient(hc),
		rateLimiter: NewRateLimiter(quota),
	}
}

// NewClientWithHTTPClient creates a client over a custom http.Client.
// Tests point this at an httptest server via WithBaseURL.
func NewClientWithHTTPClient(httpClient *http.Client) *Client {
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	httpClient.Transport = &credentialTransport{base: base}

	return &Client{
		gh:          gh.NewClient(httpClient),
		rateLimiter: NewRateLimiter(AuthenticatedQuota),
	}
}

// credentialTransport attaches the authorization header. A per-run
// credential in the request context wins over the configured one.
type credentialTransport struct {
	auth http.RoundTripper // attaches the configured token, nil when anonymous
	base http.RoundTripper
}

func (t *credentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if credential, ok := driven.CredentialFromContext(req.Context()); ok {
		clone := req.Clone(req.Context())
		clone.Header.Set("Authorization", "Bearer "+credential)
		return t.base.RoundTrip(clone)
	}
	if t.auth != nil {
		return t.auth.RoundTrip(req)
	}
	return t.base.RoundTrip(req)
}

// WithBaseURL redirects all API calls to the given base URL, which must
// end in a trailing slash.
func (c *Client) WithBaseURL(baseURL string) error {
	u, err := c.gh.BaseURL.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("parse base url: %w", err)
	}
	c.gh.BaseURL = u
	return nil
}

// RateLimiter returns the limiter for external inspection.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// GetBranchTip returns the SHA of the current tip of a branch.
// One cheap request; this is the repository-granularity change probe.
func (c *Client) GetBranchTip(ctx context.Context, owner, repo, branch string) (string, error) {
	ref, err := call(ctx, c, "get ref", func(ctx context.Context) (*gh.Reference, *gh.Response, error) {
		return c.gh.Git.GetRef(ctx, owner, repo, "heads/"+branch)
	})
	if err != nil {
		if IsNotFound(err) {
			return "", fmt.Errorf("%w: %s@%s", ErrBranchNotFound, owner+"/"+repo, branch)
		}
		return "", err
	}
	return ref.GetObject().GetSHA(), nil
}

// GetTree fetches the entire tree of a branch recursively in one request.
func (c *Client) GetTree(ctx context.Context, owner, repo, ref string) (*gh.Tree, error) {
	return call(ctx, c, "get tree", func(ctx context.Context) (*gh.Tree, *gh.Response, error) {
		return c.gh.Git.GetTree(ctx, owner, repo, ref, true)
	})
}

// GetFileContent fetches and decodes the content of a file at a ref.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	content, err := call(ctx, c, "get contents",
		func(ctx context.Context) (*gh.RepositoryContent, *gh.Response, error) {
			fileContent, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
			return fileContent, resp, err
		})
	if err != nil {
		return "", err
	}
	if content == nil {
		return "", ErrNotAFile
	}

	decoded, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode content: %w", err)
	}
	return decoded, nil
}

// ListCommits fetches one page of commits. Callers drive pagination via
// the returned response's NextPage/LastPage.
func (c *Client) ListCommits(
	ctx context.Context, owner, repo string, opts *gh.CommitsListOptions,
) ([]*gh.RepositoryCommit, *gh.Response, error) {
	var page *gh.Response
	commits, err := call(ctx, c, "list commits",
		func(ctx context.Context) ([]*gh.RepositoryCommit, *gh.Response, error) {
			commits, resp, err := c.gh.Repositories.ListCommits(ctx, owner, repo, opts)
			page = resp
			return commits, resp, err
		})
	if err != nil {
		return nil, nil, err
	}
	return commits, page, nil
}

// GetCommit fetches a single commit with its size-of-change stats.
func (c *Client) GetCommit(ctx context.Context, owner, repo, sha string) (*gh.RepositoryCommit, error) {
	return call(ctx, c, "get commit", func(ctx context.Context) (*gh.RepositoryCommit, *gh.Response, error) {
		return c.gh.Repositories.GetCommit(ctx, owner, repo, sha, nil)
	})
}

// call issues a request with proactive throttling, quota tracking and
// bounded retry. Quota exhaustion is returned immediately with its reset
// time; other failures are retried with a linearly increasing delay.
func call[T any](
	ctx context.Context, c *Client, op string,
	fn func(ctx context.Context) (T, *gh.Response, error),
) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return zero, fmt.Errorf("rate limit wait: %w", err)
		}

		result, resp, err := fn(ctx)
		if resp != nil {
			c.rateLimiter.UpdateFromResponse(resp.Response)
		}
		if err == nil {
			return result, nil
		}

		classified, retryable := c.classify(err, op)
		if !retryable {
			return zero, classified
		}

		lastErr = classified
		if attempt < MaxAttempts {
			logger.Debug("github: %s failed (attempt %d/%d): %v", op, attempt, MaxAttempts, err)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(time.Duration(attempt) * RetryDelay):
			}
		}
	}

	return zero, lastErr
}

// classify converts go-github errors to this package's error types and
// decides retryability. Quota exhaustion and client errors are final;
// server errors and transport failures are retryable.
func (c *Client) classify(err error, op string) (classified error, retryable bool) {
	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   rateLimitErr.Rate.Reset.Time,
			Remaining: rateLimitErr.Rate.Remaining,
			Limit:     rateLimitErr.Rate.Limit,
		}, false
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		resetAt := time.Now()
		if abuseErr.RetryAfter != nil {
			resetAt = resetAt.Add(*abuseErr.RetryAfter)
		}
		return &RateLimitError{
			ResetAt:   resetAt,
			Remaining: c.rateLimiter.Remaining(),
			Limit:     c.rateLimiter.Limit(),
		}, false
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		status := ghErr.Response.StatusCode

		// A 403 with the quota drained is exhaustion even when go-github
		// did not classify it as a RateLimitError.
		if (status == http.StatusForbidden && c.rateLimiter.Remaining() == 0) ||
			status == http.StatusTooManyRequests {
			return &RateLimitError{
				ResetAt:   c.rateLimiter.ResetTime(),
				Remaining: c.rateLimiter.Remaining(),
				Limit:     c.rateLimiter.Limit(),
			}, false
		}

		apiErr := &APIError{
			StatusCode: status,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil && ghErr.Response.Request.URL != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}

		// Client errors will not get better on retry.
		if status >= 400 && status < 500 {
			return apiErr, false
		}
		return apiErr, true
	}

	return fmt.Errorf("%s: %w", op, err), true
}
