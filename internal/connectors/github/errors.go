package github

import (
	"errors"
	"fmt"
	"time"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
)

// GitHub-specific errors.
var (
	// ErrRepoNotFound indicates the repository was not found or is not accessible.
	ErrRepoNotFound = errors.New("github: repository not found")

	// ErrBranchNotFound indicates the specified branch was not found.
	ErrBranchNotFound = errors.New("github: branch not found")

	// ErrNotAFile indicates the requested path resolved to a directory.
	ErrNotAFile = errors.New("github: path is a directory, not a file")
)

// RateLimitError represents an exhausted API quota with its reset time.
// It is never retried; callers decide whether to wait or abort.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// Is matches the domain sentinel, so callers outside this package can
// detect quota exhaustion with errors.Is(err, domain.ErrRateLimited).
func (e *RateLimitError) Is(target error) bool {
	return target == domain.ErrRateLimited
}

// APIError represents a non-success GitHub API response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return errors.Is(err, ErrRepoNotFound) || errors.Is(err, ErrBranchNotFound)
}

// IsRateLimited checks if the error indicates quota exhaustion.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}
