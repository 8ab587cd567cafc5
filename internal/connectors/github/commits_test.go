package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relnotes-labs/relnotes-cli/internal/core/domain"
)

var testSource = domain.SourceRepository{Owner: "o", Repo: "r", Branch: "main"}

func TestLastChanged(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/o/r/commits", r.URL.Path)
		assert.Equal(t, "docs/whats-new.md", r.URL.Query().Get("path"))
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		fmt.Fprint(w, `[{"sha":"c1","commit":{"message":"update","author":{"name":"Ada","date":"2026-07-01T10:00:00Z"}}}]`)
	}))

	tracker := NewTracker(client, Config{})

	got := tracker.LastChanged(context.Background(), testSource, "docs/whats-new.md")

	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC), got.UTC())
}

func TestLastChangedUnavailable(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message":"Git Repository is empty."}`)
	}))

	tracker := NewTracker(client, Config{})

	assert.Nil(t, tracker.LastChanged(context.Background(), testSource, "docs/whats-new.md"))
}

func TestFirstObservedJumpsToLastPage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		base := "http://" + r.Host + r.URL.Path
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(
				`<%s?page=2>; rel="next", <%s?page=3>; rel="last"`, base, base))
			fmt.Fprint(w, `[{"sha":"new","commit":{"author":{"name":"Ada","date":"2026-07-01T10:00:00Z"}}}]`)
		case "3":
			fmt.Fprint(w, `[
				{"sha":"older","commit":{"author":{"name":"Ada","date":"2020-02-02T00:00:00Z"}}},
				{"sha":"oldest","commit":{"author":{"name":"Ada","date":"2020-01-01T00:00:00Z"}}}
			]`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))

	tracker := NewTracker(client, Config{})

	got := tracker.FirstObserved(context.Background(), testSource, "docs/whats-new.md")

	require.NotNil(t, got)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), got.UTC())
}

func TestFirstObservedSinglePage(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"sha":"c2","commit":{"author":{"name":"Ada","date":"2025-06-01T00:00:00Z"}}},
			{"sha":"c1","commit":{"author":{"name":"Ada","date":"2025-05-01T00:00:00Z"}}}
		]`)
	}))

	tracker := NewTracker(client, Config{})

	got := tracker.FirstObserved(context.Background(), testSource, "docs/whats-new.md")

	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), got.UTC())
}

func TestRecentCommits(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/commits/c1") {
			fmt.Fprint(w, `{"sha":"c1","stats":{"additions":10,"deletions":3,"total":13},
				"commit":{"message":"add page","author":{"name":"Ada","date":"2026-07-01T10:00:00Z"}}}`)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/commits/c2") {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
			return
		}
		assert.Equal(t, "2026-06-01T00:00:00Z", r.URL.Query().Get("since"))
		fmt.Fprint(w, `[
			{"sha":"c1","commit":{"message":"add page","author":{"name":"Ada","date":"2026-07-01T10:00:00Z"}}},
			{"sha":"c2","commit":{"message":"fix typo","author":{"name":"Grace","date":"2026-06-15T10:00:00Z"}}}
		]`)
	}))

	tracker := NewTracker(client, Config{})
	since := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	records, err := tracker.RecentCommits(context.Background(), testSource, since)

	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "c1", records[0].SHA)
	assert.Equal(t, "add page", records[0].Message)
	assert.Equal(t, "Ada", records[0].Author)
	assert.Equal(t, 10, records[0].Additions)
	assert.Equal(t, 3, records[0].Deletions)
	assert.Equal(t, 13, records[0].TotalChanges)

	// The failed detail fetch degrades to zero counters, not an error.
	assert.Equal(t, "c2", records[1].SHA)
	assert.Zero(t, records[1].TotalChanges)
}

func TestRecentCommitsEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))

	tracker := NewTracker(client, Config{})

	records, err := tracker.RecentCommits(context.Background(), testSource, time.Time{})

	require.NoError(t, err)
	assert.Empty(t, records)
}
