package markdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontMatter(t *testing.T) {
	content := `---
title: What's new in Windows 11, version 24H2
description: New features and improvements in the latest update.
ms.date: 07/15/2026
preview_date: "05/01/2026"
ga_date: "07/15/2026"
ms.custom:
  - intro
---

# Ignored heading

Body text.
`

	meta := Parse(content)

	assert.Equal(t, "What's new in Windows 11, version 24H2", meta.Title)
	assert.Equal(t, "New features and improvements in the latest update.", meta.Description)

	require.NotNil(t, meta.ReleaseDate)
	assert.Equal(t, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), *meta.ReleaseDate)
	require.NotNil(t, meta.PreviewDate)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), *meta.PreviewDate)
	require.NotNil(t, meta.GADate)
	assert.Equal(t, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), *meta.GADate)
}

func TestParseISODate(t *testing.T) {
	content := "---\ntitle: Release notes\ndate: 2026-03-02\n---\nBody"

	meta := Parse(content)

	require.NotNil(t, meta.ReleaseDate)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), *meta.ReleaseDate)
}

func TestParseHeadingFallback(t *testing.T) {
	content := `Some intro text.

## What's new in this release

More text.
`

	meta := Parse(content)

	assert.Equal(t, "What's new in this release", meta.Title)
	assert.Empty(t, meta.Description)
	assert.Nil(t, meta.ReleaseDate)
}

func TestParseFrontMatterWithoutTitleUsesHeading(t *testing.T) {
	content := "---\nms.date: 01/10/2026\n---\n# Heading title\n"

	meta := Parse(content)

	assert.Equal(t, "Heading title", meta.Title)
	require.NotNil(t, meta.ReleaseDate)
}

func TestParseMalformedFrontMatter(t *testing.T) {
	content := "---\ntitle: [unclosed\n---\n# Salvaged title\n"

	meta := Parse(content)

	assert.Equal(t, "Salvaged title", meta.Title)
	assert.Nil(t, meta.ReleaseDate)
}

func TestParseUnterminatedFrontMatter(t *testing.T) {
	content := "---\ntitle: never closed\n# A heading\n"

	meta := Parse(content)

	// Without a closing delimiter the whole document is treated as body.
	assert.Equal(t, "A heading", meta.Title)
}

func TestParseEmptyDocument(t *testing.T) {
	meta := Parse("")

	assert.Empty(t, meta.Title)
	assert.Nil(t, meta.ReleaseDate)
}

func TestParseInvalidDateIgnored(t *testing.T) {
	content := "---\ntitle: T\nms.date: soon\n---\n"

	meta := Parse(content)

	assert.Equal(t, "T", meta.Title)
	assert.Nil(t, meta.ReleaseDate)
}

func TestParseCRLFContent(t *testing.T) {
	content := "---\r\ntitle: Windows release\r\nms.date: 02/20/2026\r\n---\r\nBody\r\n"

	meta := Parse(content)

	assert.Equal(t, "Windows release", meta.Title)
	require.NotNil(t, meta.ReleaseDate)
}
