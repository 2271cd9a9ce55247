// Package logutil provides logging utilities for sanitization
package logutil

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	singleQuotePattern = regexp.MustCompile(`'(?:[^']|'')*'`)
	dollarQuotePattern = regexp.MustCompile(`\$\$[^$]*\$\$`)
	paramPattern       = regexp.MustCompile(`\$\d+`)
	numericPattern     = regexp.MustCompile(`\b\d+(?:\.\d+)?(?:[eE][+-]?\d+)?\b`)
)

// SanitizeSQL replaces literal values in a SQL statement with
// placeholders so PII never reaches the logs. Parameter placeholders
// ($1, $2, ...) are kept as-is.
//
// Example:
//
//	SELECT * FROM members WHERE email = 'user@example.com' AND id = 123
//	=> SELECT * FROM members WHERE email = '<redacted>' AND id = <num>
func SanitizeSQL(query string) string {
	// String literals first, so numbers inside them are already gone.
	query = singleQuotePattern.ReplaceAllString(query, "'<redacted>'")
	query = dollarQuotePattern.ReplaceAllString(query, "$$$$<redacted>$$$$")

	// Shield $1, $2, ... from the numeric pass, then restore them.
	params := paramPattern.FindAllString(query, -1)
	for i, p := range params {
		query = strings.Replace(query, p, marker(i), 1)
	}
	query = numericPattern.ReplaceAllString(query, "<num>")
	for i, p := range params {
		query = strings.Replace(query, marker(i), p, 1)
	}
	return query
}

// marker builds a shield token that the numeric pattern cannot match:
// the digits sit directly after a word character.
func marker(i int) string {
	return "\x00P" + strconv.Itoa(i) + "\x00"
}
