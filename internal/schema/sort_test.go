package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortBy(t *testing.T) {
	sortable := []string{"Title", "Created"}

	t.Run("valid specification", func(t *testing.T) {
		spec, err := parseSortBy([]interface{}{
			map[string]interface{}{"field": "Title", "direction": "DESC"},
			map[string]interface{}{"field": "Created"},
		}, sortable)
		require.NoError(t, err)

		require.Len(t, spec, 2)
		assert.Equal(t, SortField{Field: "Title", Direction: SortDescending}, spec[0])
		assert.Equal(t, SortField{Field: "Created", Direction: SortAscending}, spec[1])
	})

	t.Run("unknown field names the field", func(t *testing.T) {
		_, err := parseSortBy([]interface{}{
			map[string]interface{}{"field": "Secret", "direction": "ASC"},
		}, sortable)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Secret")
	})

	t.Run("unknown direction fails", func(t *testing.T) {
		_, err := parseSortBy([]interface{}{
			map[string]interface{}{"field": "Title", "direction": "SIDEWAYS"},
		}, sortable)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SIDEWAYS")
	})

	t.Run("non-list argument fails", func(t *testing.T) {
		_, err := parseSortBy("Title", sortable)
		require.Error(t, err)
	})

	t.Run("empty whitelist rejects everything", func(t *testing.T) {
		_, err := parseSortBy([]interface{}{
			map[string]interface{}{"field": "Title"},
		}, nil)
		require.Error(t, err)
	})
}
