package schema

import (
	"sync"

	"github.com/graphql-go/graphql"
	"github.com/samber/lo"
)

// Connection defaults. A connection that never configures its limits
// serves pages of at most 100 elements.
const (
	DefaultLimit        = 100
	DefaultMaximumLimit = 100
)

// reservedArgNames are the argument names every connection owns; extra
// filter arguments must not collide with them.
var reservedArgNames = []string{"limit", "offset", "sortBy"}

// ListResolver is the hook a connection calls to obtain its list source.
// It receives the engine's resolve parameters unchanged, so the hook can
// derive the list from the parent node (nested connections), consult the
// request context for permission checks, or open a query scope.
type ListResolver func(p graphql.ResolveParams) (ListSource, error)

// Edge wraps a single paginated element.
type Edge struct {
	Node   interface{} `json:"node"`
	Cursor int         `json:"cursor"`
}

// PageInfo describes a page's position within the full result set.
type PageInfo struct {
	TotalCount      int  `json:"totalCount"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// Page is the value a connection resolver returns; the engine serializes
// it through the generated connection type.
type Page struct {
	Edges    []Edge   `json:"edges"`
	PageInfo PageInfo `json:"pageInfo"`
}

// pageInfoType is shared by every connection.
var pageInfoType = graphql.NewObject(graphql.ObjectConfig{
	Name: "PageInfo",
	Fields: graphql.Fields{
		"totalCount":      &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"hasNextPage":     &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"hasPreviousPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
	},
})

// Connection turns a ListSource into a paginated, sortable, filterable
// GraphQL field. Connections are configured once at schema-build time and
// are immutable afterwards; every ResolveList call is a pure function of
// the source, the arguments and the request context.
type Connection struct {
	name           string
	elementType    TypeThunk
	extraArgs      graphql.FieldConfigArgument
	sortableFields []string
	defaultLimit   int
	maximumLimit   int
	resolver       ListResolver

	err *ConfigError // first configuration error, surfaced by Validate

	typeOnce sync.Once
	connType *graphql.Object

	argsOnce  sync.Once
	builtArgs graphql.FieldConfigArgument
}

// NewConnection allocates a connection with default limits, no sortable
// fields and no extra arguments.
func NewConnection(name string) *Connection {
	c := &Connection{
		name:         name,
		extraArgs:    graphql.FieldConfigArgument{},
		defaultLimit: DefaultLimit,
		maximumLimit: DefaultMaximumLimit,
	}
	if name == "" {
		c.fail(configErrorf("", "connection name cannot be empty"))
	}
	return c
}

// WithElementType stores the lazy reference to the element's GraphQL
// type. Required before the connection type can be built.
func (c *Connection) WithElementType(thunk TypeThunk) *Connection {
	if thunk == nil {
		c.fail(configErrorf(c.name, "element type thunk cannot be nil"))
		return c
	}
	c.elementType = memoizeThunk(thunk)
	return c
}

// WithArgs merges caller-defined filter arguments into the generated
// argument schema. Names must not collide with limit, offset or sortBy.
func (c *Connection) WithArgs(args graphql.FieldConfigArgument) *Connection {
	for name, arg := range args {
		if lo.Contains(reservedArgNames, name) {
			c.fail(configErrorf(c.name, "argument name %q is reserved", name))
			continue
		}
		c.extraArgs[name] = arg
	}
	return c
}

// WithSortableFields whitelists the fields accepted in sortBy. Without
// any sortable field the sortBy argument is not generated at all.
func (c *Connection) WithSortableFields(fields ...string) *Connection {
	c.sortableFields = append(c.sortableFields, fields...)
	return c
}

// WithDefaultLimit sets the page size used when the caller omits limit.
func (c *Connection) WithDefaultLimit(n int) *Connection {
	if n < 1 {
		c.fail(configErrorf(c.name, "default limit must be positive, got: %d", n))
		return c
	}
	c.defaultLimit = n
	return c
}

// WithMaximumLimit sets the page size ceiling. Requests above it are
// clamped, never rejected.
func (c *Connection) WithMaximumLimit(n int) *Connection {
	if n < 1 {
		c.fail(configErrorf(c.name, "maximum limit must be positive, got: %d", n))
		return c
	}
	c.maximumLimit = n
	return c
}

// WithResolver installs the hook that produces the list source for each
// resolution call.
func (c *Connection) WithResolver(resolver ListResolver) *Connection {
	c.resolver = resolver
	return c
}

func (c *Connection) fail(err *ConfigError) {
	if c.err == nil {
		c.err = err
	}
}

// Name returns the connection's unique name.
func (c *Connection) Name() string { return c.name }

// Validate checks the accumulated configuration. Called by the registry
// before the schema is built; any error here aborts startup.
func (c *Connection) Validate() error {
	if c.err != nil {
		return c.err
	}
	if c.elementType == nil {
		return configErrorf(c.name, "element type thunk is required")
	}
	if c.resolver == nil {
		return configErrorf(c.name, "list resolver is required")
	}
	if c.defaultLimit > c.maximumLimit {
		return configErrorf(c.name, "default limit %d exceeds maximum limit %d", c.defaultLimit, c.maximumLimit)
	}
	return nil
}

// ToType builds the <Name>Connection object. The result is memoized; type
// objects are immutable and shared across requests.
func (c *Connection) ToType() *graphql.Object {
	c.typeOnce.Do(func() {
		typeName := exportedName(c.name)
		edgeType := graphql.NewObject(graphql.ObjectConfig{
			Name: typeName + "Edge",
			Fields: graphql.Fields{
				"node": &graphql.Field{
					Type: c.elementType(),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						if edge, ok := p.Source.(Edge); ok {
							return edge.Node, nil
						}
						return nil, nil
					},
				},
			},
		})

		c.connType = graphql.NewObject(graphql.ObjectConfig{
			Name: typeName + "Connection",
			Fields: graphql.Fields{
				"edges":    &graphql.Field{Type: graphql.NewList(edgeType)},
				"pageInfo": &graphql.Field{Type: graphql.NewNonNull(pageInfoType)},
			},
		})
	})
	return c.connType
}

// Args builds the full argument schema: limit, offset and sortBy plus the
// caller's extra arguments.
func (c *Connection) Args() graphql.FieldConfigArgument {
	c.argsOnce.Do(func() {
		args := graphql.FieldConfigArgument{
			"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
			"offset": &graphql.ArgumentConfig{Type: graphql.Int},
		}
		if len(c.sortableFields) > 0 {
			args["sortBy"] = &graphql.ArgumentConfig{
				Type: graphql.NewList(sortInputType(c.name, c.sortableFields)),
			}
		}
		for name, arg := range c.extraArgs {
			args[name] = arg
		}
		c.builtArgs = args
	})
	return c.builtArgs
}

// Field bundles type, arguments and resolver into a field ready to mount
// as a root query or as a nested field on another element type.
func (c *Connection) Field() *graphql.Field {
	return &graphql.Field{
		Type:    c.ToType(),
		Args:    c.Args(),
		Resolve: c.ResolveList,
	}
}

// ResolveList is the per-request resolver. It validates the pagination
// and sort arguments, routes extra filter arguments to the list source,
// and wraps the requested window into the edges/pageInfo envelope.
func (c *Connection) ResolveList(p graphql.ResolveParams) (interface{}, error) {
	limit := c.defaultLimit
	if raw, ok := p.Args["limit"]; ok && raw != nil {
		n, ok := raw.(int)
		if !ok {
			return nil, argumentErrorf("limit", "expected an integer, got %T", raw)
		}
		if n < 0 {
			return nil, argumentErrorf("limit", "must not be negative, got: %d", n)
		}
		limit = n
	}
	if limit > c.maximumLimit {
		limit = c.maximumLimit
	}

	offset := 0
	if raw, ok := p.Args["offset"]; ok && raw != nil {
		n, ok := raw.(int)
		if !ok {
			return nil, argumentErrorf("offset", "expected an integer, got %T", raw)
		}
		if n < 0 {
			return nil, argumentErrorf("offset", "must not be negative, got: %d", n)
		}
		offset = n
	}

	// Sort arguments are validated before any listing work so a bad
	// request never triggers a query.
	var sortSpec []SortField
	if raw, ok := p.Args["sortBy"]; ok && raw != nil {
		spec, err := parseSortBy(raw, c.sortableFields)
		if err != nil {
			return nil, err
		}
		sortSpec = spec
	}

	source, err := c.resolver(p)
	if err != nil {
		return nil, err
	}

	// Route caller-defined filter arguments to the source. Their
	// semantics belong to the source, not to the connection.
	for name, value := range p.Args {
		if lo.Contains(reservedArgNames, name) || value == nil {
			continue
		}
		source, err = source.Filter(name, value)
		if err != nil {
			return nil, err
		}
	}

	total, err := source.Count(p.Context)
	if err != nil {
		return nil, err
	}

	if len(sortSpec) > 0 {
		source, err = source.Sort(sortSpec)
		if err != nil {
			return nil, err
		}
	}

	items, err := source.Slice(p.Context, offset, limit)
	if err != nil {
		return nil, err
	}

	edges := lo.Map(items, func(item interface{}, i int) Edge {
		return Edge{Node: item, Cursor: offset + i}
	})

	return Page{
		Edges: edges,
		PageInfo: PageInfo{
			TotalCount:      total,
			HasNextPage:     offset+limit < total,
			HasPreviousPage: offset > 0,
		},
	}, nil
}
