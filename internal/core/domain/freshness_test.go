package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestFreshnessPolicy_Classify(t *testing.T) {
	policy := DefaultFreshnessPolicy

	tests := []struct {
		name string
		doc  *DocumentRecord
		want string
	}{
		{
			name: "nil document",
			doc:  nil,
			want: FreshnessUnknown,
		},
		{
			name: "no first seen date",
			doc:  &DocumentRecord{LastModified: date("2026-01-10")},
			want: FreshnessUnknown,
		},
		{
			name: "changed within window",
			doc: &DocumentRecord{
				FirstSeen:    date("2026-01-01"),
				LastModified: date("2026-01-20"),
			},
			want: FreshnessNew,
		},
		{
			name: "changed after window",
			doc: &DocumentRecord{
				FirstSeen:    date("2025-06-01"),
				LastModified: date("2026-01-20"),
			},
			want: FreshnessUpdated,
		},
		{
			name: "first seen only",
			doc:  &DocumentRecord{FirstSeen: date("2026-01-01")},
			want: FreshnessNew,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Classify(tt.doc))
		})
	}
}

func TestDocumentRecord_EffectiveDate(t *testing.T) {
	release := date("2026-02-01")
	modified := date("2026-03-15")

	doc := &DocumentRecord{ReleaseDate: release, LastModified: modified}
	assert.Equal(t, release, doc.EffectiveDate(), "declared release date wins")

	doc = &DocumentRecord{LastModified: modified}
	assert.Equal(t, modified, doc.EffectiveDate(), "falls back to last modified")

	doc = &DocumentRecord{}
	assert.Nil(t, doc.EffectiveDate())
}

func TestRevisionState_Changed(t *testing.T) {
	state := RevisionState{"octo/docs": "abc123"}

	assert.False(t, state.Changed("octo/docs", "abc123"))
	assert.True(t, state.Changed("octo/docs", "def456"))
	assert.True(t, state.Changed("octo/other", "abc123"), "unknown source is always changed")
}

func TestSyncCheckpoint_Due(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-10 * time.Minute)
	old := now.Add(-2 * time.Hour)

	var nilCheckpoint *SyncCheckpoint
	assert.True(t, nilCheckpoint.Due(time.Hour, false, now))

	cp := &SyncCheckpoint{Status: SyncIdle}
	assert.True(t, cp.Due(time.Hour, false, now), "never synced")

	cp.LastSyncTime = &recent
	assert.False(t, cp.Due(time.Hour, false, now), "within interval")
	assert.True(t, cp.Due(time.Hour, true, now), "forced")

	cp.LastSyncTime = &old
	assert.True(t, cp.Due(time.Hour, false, now), "interval elapsed")
}
