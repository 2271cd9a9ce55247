package api

import (
	"fmt"
	"strconv"

	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// defaultListSize is assumed for list fields whose page size is not
// visible in the query text.
const defaultListSize = 10

// queryStats summarizes a query's shape for the pre-execution guards.
type queryStats struct {
	Depth              int  // deepest selection nesting across operations
	MaxFieldsPerLevel  int  // most unique field names in any selection set
	HasFragmentSpreads bool // query uses named fragment spreads
	Complexity         int  // heuristic cost score
}

// analyzeQuery parses the query once and derives every guard metric from
// the same AST walk.
func analyzeQuery(query string) (*queryStats, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return nil, err
	}

	stats := &queryStats{}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}

		cost := walkSelectionSet(op.SelectionSet, 1, 1, stats)
		if op.Operation == ast.OperationTypeMutation {
			cost += 10
		}
		stats.Complexity += cost
	}
	return stats, nil
}

// walkSelectionSet records depth and per-level field counts and returns
// the heuristic cost of the selection set.
func walkSelectionSet(selSet *ast.SelectionSet, depth, multiplier int, stats *queryStats) int {
	if selSet == nil || len(selSet.Selections) == 0 {
		return 0
	}

	if depth > stats.Depth {
		stats.Depth = depth
	}

	fieldNames := make(map[string]bool)
	var cost int

	for _, sel := range selSet.Selections {
		switch s := sel.(type) {
		case *ast.Field:
			fieldNames[s.Name.Value] = true
			cost += multiplier

			if s.SelectionSet != nil {
				// A field paging its children fans out the nested cost by
				// the requested page size.
				fanout := 1
				if size, ok := pageSizeArgument(s); ok {
					fanout = size
				}
				cost += walkSelectionSet(s.SelectionSet, depth+1, multiplier*fanout, stats)
			}

		case *ast.InlineFragment:
			cost += walkSelectionSet(s.SelectionSet, depth, multiplier, stats)

		case *ast.FragmentSpread:
			stats.HasFragmentSpreads = true
			// The spread's own selections are not resolvable without the
			// fragment definitions; count the spread itself.
			cost += multiplier
			if depth+1 > stats.Depth {
				stats.Depth = depth + 1
			}
		}
	}

	if len(fieldNames) > stats.MaxFieldsPerLevel {
		stats.MaxFieldsPerLevel = len(fieldNames)
	}

	return cost
}

// pageSizeArgument reads a literal limit/first argument off a field. A
// field that takes one is assumed to resolve to a list of that many
// elements; without a literal value the default list size applies.
func pageSizeArgument(field *ast.Field) (int, bool) {
	for _, arg := range field.Arguments {
		name := arg.Name.Value
		if name != "limit" && name != "first" {
			continue
		}
		// Literal ints are carried as strings in the AST.
		if raw, ok := arg.Value.GetValue().(string); ok {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				return n, true
			}
		}
		return defaultListSize, true
	}
	return 0, false
}
