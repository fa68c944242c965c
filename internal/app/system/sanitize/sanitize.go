// internal/app/system/sanitize/sanitize.go

// Package sanitize strips markup from free-text form input before storage.
// Lesson-plan fields are plain text; anything that looks like HTML in them
// is attacker- or paste-noise and is removed, not escaped.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Text removes all HTML elements and attributes from s, unescapes the
// entity-encoded remainder, and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(s)))
}
