package schema

import (
	"fmt"
	"strings"

	"github.com/graphql-go/graphql"
)

// SortDirection is the direction of a single sort entry.
type SortDirection string

const (
	SortAscending  SortDirection = "ASC"
	SortDescending SortDirection = "DESC"
)

// SortField is one entry of a sort specification. Entries are applied in
// order; ties within a field fall back to the source's natural order.
type SortField struct {
	Field     string
	Direction SortDirection
}

// sortDirectionType is shared by every generated sort input.
var sortDirectionType = graphql.NewEnum(graphql.EnumConfig{
	Name: "SortDirection",
	Values: graphql.EnumValueConfigMap{
		"ASC":  &graphql.EnumValueConfig{Value: string(SortAscending)},
		"DESC": &graphql.EnumValueConfig{Value: string(SortDescending)},
	},
})

// sortInputType builds the <Name>SortInput input object for a connection,
// with the field enum restricted to the connection's sortable fields.
func sortInputType(name string, sortableFields []string) *graphql.InputObject {
	values := graphql.EnumValueConfigMap{}
	for _, field := range sortableFields {
		values[field] = &graphql.EnumValueConfig{Value: field}
	}

	typeName := exportedName(name)
	fieldEnum := graphql.NewEnum(graphql.EnumConfig{
		Name:   typeName + "SortField",
		Values: values,
	})

	return graphql.NewInputObject(graphql.InputObjectConfig{
		Name: typeName + "SortInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"field": &graphql.InputObjectFieldConfig{
				Type: graphql.NewNonNull(fieldEnum),
			},
			"direction": &graphql.InputObjectFieldConfig{
				Type:         sortDirectionType,
				DefaultValue: string(SortAscending),
			},
		},
	})
}

// parseSortBy converts the raw sortBy argument, as delivered by the
// engine, into a sort specification. Field names are checked against the
// whitelist here as well, so callers invoking ResolveList directly get
// the same validation the generated enum provides.
func parseSortBy(raw interface{}, sortableFields []string) ([]SortField, error) {
	entries, ok := raw.([]interface{})
	if !ok {
		return nil, argumentErrorf("sortBy", "expected a list of sort entries, got %T", raw)
	}

	spec := make([]SortField, 0, len(entries))
	for _, entry := range entries {
		m, ok := entry.(map[string]interface{})
		if !ok {
			return nil, argumentErrorf("sortBy", "expected a sort entry object, got %T", entry)
		}

		field, _ := m["field"].(string)
		if !containsField(sortableFields, field) {
			return nil, argumentErrorf("sortBy", "field %q is not sortable", field)
		}

		direction := SortAscending
		if raw, ok := m["direction"].(string); ok {
			switch SortDirection(raw) {
			case SortAscending, SortDescending:
				direction = SortDirection(raw)
			default:
				return nil, argumentErrorf("sortBy", "unknown sort direction %q", raw)
			}
		}

		spec = append(spec, SortField{Field: field, Direction: direction})
	}
	return spec, nil
}

// exportedName upper-cases the first rune so generated type names read
// like GraphQL type names even when the field name is lowerCamel.
func exportedName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func containsField(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}

func (d SortDirection) String() string { return string(d) }

func (f SortField) String() string {
	return fmt.Sprintf("%s %s", f.Field, f.Direction)
}
