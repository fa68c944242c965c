// internal/app/system/normalize/normalize.go

// Package normalize centralizes input normalization so stores and handlers
// agree on what a clean value looks like.
package normalize

import "strings"

// Username trims surrounding whitespace. Usernames match exactly
// (case-sensitive) everywhere, so this is the only transformation applied.
func Username(s string) string {
	return strings.TrimSpace(s)
}

// Name trims and collapses internal whitespace runs to single spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FieldText trims a free-text form field.
func FieldText(s string) string {
	return strings.TrimSpace(s)
}
