// Package pgsource provides a Postgres-backed list source for GraphQL
// connections. A TableSource maps exposed field names onto table columns
// and translates filter/sort/slice/count operations into SQL executed
// through a pgx pool.
package pgsource

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/coralcms/coral/internal/logutil"
	"github.com/coralcms/coral/internal/schema"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type condition struct {
	column string
	value  interface{}
}

// TableSource implements schema.ListSource over a single table or view.
// Filter and Sort return copies; a source handed to a connection is never
// mutated by resolution.
type TableSource struct {
	pool       *pgxpool.Pool
	table      string
	columns    map[string]string // exposed field name -> column name
	logQueries bool

	conditions []condition
	orderBy    []schema.SortField
}

// NewTableSource creates a source over the given table. columns maps the
// field names exposed to GraphQL onto column names; only mapped fields
// can be filtered or sorted.
func NewTableSource(pool *pgxpool.Pool, table string, columns map[string]string, logQueries bool) *TableSource {
	return &TableSource{
		pool:       pool,
		table:      table,
		columns:    columns,
		logQueries: logQueries,
	}
}

func (s *TableSource) clone() *TableSource {
	clone := &TableSource{
		pool:       s.pool,
		table:      s.table,
		columns:    s.columns,
		logQueries: s.logQueries,
		conditions: make([]condition, len(s.conditions)),
		orderBy:    make([]schema.SortField, len(s.orderBy)),
	}
	copy(clone.conditions, s.conditions)
	copy(clone.orderBy, s.orderBy)
	return clone
}

// Filter returns a view restricted to rows whose column equals value.
func (s *TableSource) Filter(field string, value interface{}) (schema.ListSource, error) {
	column, ok := s.columns[field]
	if !ok {
		return nil, fmt.Errorf("table %s has no filterable field %q", s.table, field)
	}
	clone := s.clone()
	clone.conditions = append(clone.conditions, condition{column: column, value: value})
	return clone, nil
}

// Sort returns a view ordered by the given specification.
func (s *TableSource) Sort(spec []schema.SortField) (schema.ListSource, error) {
	for _, entry := range spec {
		if _, ok := s.columns[entry.Field]; !ok {
			return nil, fmt.Errorf("table %s has no sortable field %q", s.table, entry.Field)
		}
	}
	clone := s.clone()
	clone.orderBy = append(clone.orderBy, spec...)
	return clone, nil
}

// Count returns the number of rows matching the current conditions.
func (s *TableSource) Count(ctx context.Context) (int, error) {
	query, args := s.buildQuery("SELECT COUNT(*)", false, 0, 0)
	s.logQuery(query)

	var count int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count on %s failed: %w", s.table, err)
	}
	return count, nil
}

// Slice returns the rows in [offset, offset+limit) as maps keyed by the
// exposed field names.
func (s *TableSource) Slice(ctx context.Context, offset, limit int) ([]interface{}, error) {
	fields := s.fieldNames()
	selectList := make([]string, len(fields))
	for i, field := range fields {
		selectList[i] = pgx.Identifier{s.columns[field]}.Sanitize()
	}

	query, args := s.buildQuery("SELECT "+strings.Join(selectList, ", "), true, offset, limit)
	s.logQuery(query)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select on %s failed: %w", s.table, err)
	}
	defer rows.Close()

	var items []interface{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan on %s failed: %w", s.table, err)
		}
		item := make(map[string]interface{}, len(fields))
		for i, field := range fields {
			item[field] = values[i]
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select on %s failed: %w", s.table, err)
	}
	if items == nil {
		items = []interface{}{}
	}
	return items, nil
}

// buildQuery assembles the statement for the current view. withWindow
// adds ORDER BY / LIMIT / OFFSET clauses for row listing.
func (s *TableSource) buildQuery(selectClause string, withWindow bool, offset, limit int) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(selectClause)
	sb.WriteString(" FROM ")
	sb.WriteString(pgx.Identifier{s.table}.Sanitize())

	args := make([]interface{}, 0, len(s.conditions)+2)
	for i, cond := range s.conditions {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		args = append(args, cond.value)
		fmt.Fprintf(&sb, "%s = $%d", pgx.Identifier{cond.column}.Sanitize(), len(args))
	}

	if withWindow {
		if len(s.orderBy) > 0 {
			sb.WriteString(" ORDER BY ")
			for i, entry := range s.orderBy {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(pgx.Identifier{s.columns[entry.Field]}.Sanitize())
				if entry.Direction == schema.SortDescending {
					sb.WriteString(" DESC")
				} else {
					sb.WriteString(" ASC")
				}
			}
		}
		args = append(args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
		args = append(args, offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args
}

// fieldNames returns the exposed fields in a stable order so generated
// statements are deterministic.
func (s *TableSource) fieldNames() []string {
	fields := make([]string, 0, len(s.columns))
	for field := range s.columns {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func (s *TableSource) logQuery(query string) {
	if !s.logQueries {
		return
	}
	log.Debug().
		Str("table", s.table).
		Str("query", logutil.SanitizeSQL(query)).
		Msg("pgsource query")
}
