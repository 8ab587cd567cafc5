// Package markdown parses release-notes Markdown pages: YAML front matter
// for declared metadata, headings as a fallback for the title.
package markdown

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// frontMatterDelimiter separates YAML front matter from the body.
const frontMatterDelimiter = "---"

// dateLayouts are the date formats accepted in front matter, in order of
// preference. Docs repos commonly use the US slash form.
var dateLayouts = []string{
	"01/02/2006",
	"2006-01-02",
}

// Metadata is the declared metadata of a page. Absent fields are zero;
// absent dates are nil.
type Metadata struct {
	Title       string
	Description string
	ReleaseDate *time.Time
	PreviewDate *time.Time
	GADate      *time.Time
}

// Parse extracts metadata from a Markdown page. Front matter wins; when it
// declares no title the first top-level heading is used. Malformed front
// matter is not an error, the page just yields what can be salvaged.
func Parse(content string) Metadata {
	var meta Metadata

	body := content
	if fm, rest, ok := splitFrontMatter(content); ok {
		body = rest

		// Front matter can carry non-string values under keys we do not
		// care about, so decode loosely and pick out the strings.
		var fields map[string]any
		if err := yaml.Unmarshal([]byte(fm), &fields); err == nil {
			meta.Title = stringField(fields, "title")
			meta.Description = stringField(fields, "description")
			meta.ReleaseDate = parseDate(firstNonEmpty(
				stringField(fields, "ms.date"), stringField(fields, "date")))
			meta.PreviewDate = parseDate(stringField(fields, "preview_date"))
			meta.GADate = parseDate(stringField(fields, "ga_date"))
		}
	}

	if meta.Title == "" {
		meta.Title = firstHeading(body)
	}
	return meta
}

// splitFrontMatter separates the front matter block from the body. The
// block must open on the very first line.
func splitFrontMatter(content string) (frontMatter, body string, ok bool) {
	trimmed := strings.TrimPrefix(content, "\ufeff")
	if !strings.HasPrefix(trimmed, frontMatterDelimiter+"\n") &&
		!strings.HasPrefix(trimmed, frontMatterDelimiter+"\r\n") {
		return "", content, false
	}

	rest := trimmed[len(frontMatterDelimiter):]
	rest = strings.TrimLeft(rest, "\r\n")

	idx := strings.Index(rest, "\n"+frontMatterDelimiter)
	if idx < 0 {
		return "", content, false
	}

	frontMatter = rest[:idx]
	body = rest[idx+1+len(frontMatterDelimiter):]
	return frontMatter, body, true
}

// firstHeading returns the text of the first "#" heading, or empty.
func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return ""
}

// stringField extracts a string value from decoded front matter. Unquoted
// ISO dates decode as time.Time, so those are rendered back to the string
// form the date parser accepts.
func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return ""
	}
}

func parseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
