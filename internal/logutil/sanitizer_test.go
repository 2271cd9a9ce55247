package logutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeSQL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "string literal redacted",
			input:    `SELECT * FROM members WHERE email = 'user@example.com'`,
			expected: `SELECT * FROM members WHERE email = '<redacted>'`,
		},
		{
			name:     "escaped quote inside literal",
			input:    `SELECT * FROM pages WHERE title = 'O''Reilly'`,
			expected: `SELECT * FROM pages WHERE title = '<redacted>'`,
		},
		{
			name:     "numeric literal redacted",
			input:    `SELECT * FROM pages WHERE id = 123 AND score = 4.5`,
			expected: `SELECT * FROM pages WHERE id = <num> AND score = <num>`,
		},
		{
			name:     "parameter placeholders kept",
			input:    `SELECT * FROM pages WHERE id = $1 AND title = $2`,
			expected: `SELECT * FROM pages WHERE id = $1 AND title = $2`,
		},
		{
			name:     "placeholders mixed with literals",
			input:    `SELECT * FROM pages WHERE id = $1 AND views > 100`,
			expected: `SELECT * FROM pages WHERE id = $1 AND views > <num>`,
		},
		{
			name:     "dollar quoted literal redacted",
			input:    `SELECT $$secret body$$`,
			expected: `SELECT $$<redacted>$$`,
		},
		{
			name:     "generated window query",
			input:    `SELECT "title" FROM "pages" ORDER BY "title" ASC LIMIT $1 OFFSET $2`,
			expected: `SELECT "title" FROM "pages" ORDER BY "title" ASC LIMIT $1 OFFSET $2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeSQL(tt.input))
		})
	}
}
