package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
	"github.com/relnotes-labs/relnotes-cli/internal/core/ports/driven"
)

// newTestClient points a client at an httptest server.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClientWithHTTPClient(srv.Client())
	require.NoError(t, client.WithBaseURL(srv.URL+"/"))
	return client
}

func TestGetBranchTip(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/microsoft/docs/git/ref/heads/main", r.URL.Path)
		fmt.Fprint(w, `{"ref":"refs/heads/main","object":{"sha":"abc123","type":"commit"}}`)
	}))

	sha, err := client.GetBranchTip(context.Background(), "microsoft", "docs", "main")

	require.NoError(t, err)
	assert.Equal(t, "abc123", sha)
}

func TestGetBranchTipMissingBranch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	}))

	_, err := client.GetBranchTip(context.Background(), "microsoft", "docs", "gone")

	assert.ErrorIs(t, err, ErrBranchNotFound)
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"ref":"refs/heads/main","object":{"sha":"def456"}}`)
	}))

	sha, err := client.GetBranchTip(context.Background(), "o", "r", "main")

	require.NoError(t, err)
	assert.Equal(t, "def456", sha)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message":"Validation Failed"}`)
	}))

	_, err := client.GetTree(context.Background(), "o", "r", "main")

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestQuotaExhaustionNotRetried(t *testing.T) {
	reset := time.Now().Add(30 * time.Minute).Unix()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set(HeaderRateRemaining, "0")
		w.Header().Set(HeaderRateLimit, "5000")
		w.Header().Set(HeaderRateReset, fmt.Sprint(reset))
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message":"API rate limit exceeded"}`)
	}))

	_, err := client.GetBranchTip(context.Background(), "o", "r", "main")

	require.Error(t, err)
	var rateErr *RateLimitError
	require.ErrorAs(t, err, &rateErr)
	assert.Equal(t, int32(1), calls.Load(), "quota exhaustion must not be retried")
	assert.WithinDuration(t, time.Unix(reset, 0), rateErr.ResetAt, time.Second)
	assert.True(t, IsRateLimited(err))
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestPerRunCredential(t *testing.T) {
	var lastAuth atomic.Value
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastAuth.Store(r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"ref":"refs/heads/main","object":{"sha":"abc123"}}`)
	}))

	_, err := client.GetBranchTip(context.Background(), "o", "r", "main")
	require.NoError(t, err)
	assert.Equal(t, "", lastAuth.Load(), "no credential configured, request must be anonymous")

	ctx := driven.WithCredential(context.Background(), "per-run-token")
	_, err = client.GetBranchTip(ctx, "o", "r", "main")
	require.NoError(t, err)
	assert.Equal(t, "Bearer per-run-token", lastAuth.Load())
}

func TestGetFileContent(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/o/r/contents/docs/notes.md", r.URL.Path)
		assert.Equal(t, "main", r.URL.Query().Get("ref"))
		// "# Hello" in base64.
		fmt.Fprint(w, `{"type":"file","encoding":"base64","content":"IyBIZWxsbw==","path":"docs/notes.md"}`)
	}))

	content, err := client.GetFileContent(context.Background(), "o", "r", "docs/notes.md", "main")

	require.NoError(t, err)
	assert.Equal(t, "# Hello", content)
}
