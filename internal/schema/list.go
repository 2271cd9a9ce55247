package schema

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// ListSource is the capability contract a collection must satisfy to be
// paginated by a Connection. Filter and Sort return new views and never
// mutate the receiver; Count and Slice are the operations that actually
// touch the underlying data and therefore take a context.
type ListSource interface {
	// Count returns the cardinality of the (filtered) list, before any
	// offset/limit is applied.
	Count(ctx context.Context) (int, error)

	// Filter returns a view of the source restricted by the given field
	// and value. The semantics of the match belong to the source.
	Filter(field string, value interface{}) (ListSource, error)

	// Sort returns a view ordered by the given specification. The sort is
	// stable; ties fall back to the source's natural order.
	Sort(spec []SortField) (ListSource, error)

	// Slice returns the elements in [offset, offset+limit).
	Slice(ctx context.Context, offset, limit int) ([]interface{}, error)
}

// SliceSource is an in-memory ListSource over a Go slice. Field access is
// by exported struct field name (or map key), resolved through reflection.
// Filtering is equality; sorting handles strings, integers, floats, bools
// and time.Time, with a string fallback for everything else.
type SliceSource struct {
	items []interface{}
}

// NewSliceSource wraps the given elements. The slice is copied, so later
// mutation of the caller's slice does not leak into issued views.
func NewSliceSource(items []interface{}) *SliceSource {
	copied := make([]interface{}, len(items))
	copy(copied, items)
	return &SliceSource{items: copied}
}

func (s *SliceSource) Count(ctx context.Context) (int, error) {
	return len(s.items), nil
}

func (s *SliceSource) Filter(field string, value interface{}) (ListSource, error) {
	filtered := make([]interface{}, 0, len(s.items))
	for _, item := range s.items {
		got, err := fieldValue(item, field)
		if err != nil {
			return nil, err
		}
		if equalValues(got, value) {
			filtered = append(filtered, item)
		}
	}
	return &SliceSource{items: filtered}, nil
}

func (s *SliceSource) Sort(spec []SortField) (ListSource, error) {
	sorted := make([]interface{}, len(s.items))
	copy(sorted, s.items)

	// Validate field access up front so an unknown field surfaces as an
	// error instead of a silently unsorted list.
	if len(sorted) > 0 {
		for _, entry := range spec {
			if _, err := fieldValue(sorted[0], entry.Field); err != nil {
				return nil, err
			}
		}
	}

	var sortErr error
	sort.SliceStable(sorted, func(i, j int) bool {
		for _, entry := range spec {
			a, err := fieldValue(sorted[i], entry.Field)
			if err != nil {
				sortErr = err
				return false
			}
			b, err := fieldValue(sorted[j], entry.Field)
			if err != nil {
				sortErr = err
				return false
			}
			cmp := compareValues(a, b)
			if cmp == 0 {
				continue
			}
			if entry.Direction == SortDescending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return &SliceSource{items: sorted}, nil
}

func (s *SliceSource) Slice(ctx context.Context, offset, limit int) ([]interface{}, error) {
	if offset >= len(s.items) {
		return []interface{}{}, nil
	}
	end := offset + limit
	if end > len(s.items) {
		end = len(s.items)
	}
	page := make([]interface{}, end-offset)
	copy(page, s.items[offset:end])
	return page, nil
}

// fieldValue reads a named field from a struct, struct pointer or map
// element.
func fieldValue(item interface{}, field string) (interface{}, error) {
	if m, ok := item.(map[string]interface{}); ok {
		v, exists := m[field]
		if !exists {
			return nil, fmt.Errorf("element has no field %q", field)
		}
		return v, nil
	}

	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("cannot read field %q of nil element", field)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot read field %q of %T", field, item)
	}
	f := v.FieldByName(field)
	if !f.IsValid() {
		return nil, fmt.Errorf("element of type %T has no field %q", item, field)
	}
	return f.Interface(), nil
}

func equalValues(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == b
	}
	if reflect.DeepEqual(a, b) {
		return true
	}
	// Numeric arguments arrive from the engine as int or float64 and may
	// not match the element's concrete type exactly.
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return false
}

// compareValues returns -1, 0 or 1 for a vs b.
func compareValues(a, b interface{}) int {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			switch {
			case av.Before(bv):
				return -1
			case av.After(bv):
				return 1
			default:
				return 0
			}
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
