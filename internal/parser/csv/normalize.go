package csv

import (
	"strings"
	"unicode"
)

// NormalizeFieldName produces the canonical field name for a raw CSV header
// cell: surrounding whitespace is trimmed, letters are lower-cased, every run
// of whitespace collapses to a single underscore, and hyphens become
// underscores so "Drive-Type" and "Drive Type" land on the same key.
//
// The function is pure and idempotent; an already-normalized name comes back
// unchanged. The empty string maps to the empty string.
func NormalizeFieldName(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), unicode.IsSpace)
	return strings.ReplaceAll(strings.Join(fields, "_"), "-", "_")
}

// NormalizeFieldNames maps NormalizeFieldName over a header row.
func NormalizeFieldNames(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = NormalizeFieldName(h)
	}
	return out
}
