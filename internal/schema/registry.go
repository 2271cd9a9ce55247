package schema

import (
	"sync"

	"github.com/graphql-go/graphql"
	"github.com/rs/zerolog/log"
)

// Registry aggregates registered types, queries, mutations and
// connections into an executable GraphQL schema. Registration happens
// once at startup; after Build succeeds the registry and everything it
// built are read-only.
type Registry struct {
	mu sync.Mutex

	typeCreators     []TypeCreator
	queryCreators    []QueryCreator
	mutationCreators []MutationCreator
	connections      []*Connection

	types      map[string]graphql.Type
	wantedRefs map[string]bool

	buildOnce sync.Once
	schema    *graphql.Schema
	buildErr  error
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:      make(map[string]graphql.Type),
		wantedRefs: make(map[string]bool),
	}
}

// RegisterType queues a type creator for the next build.
func (r *Registry) RegisterType(tc TypeCreator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.typeCreators = append(r.typeCreators, tc)
}

// RegisterQuery queues a query creator for the next build.
func (r *Registry) RegisterQuery(qc QueryCreator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queryCreators = append(r.queryCreators, qc)
}

// RegisterMutation queues a mutation creator for the next build.
func (r *Registry) RegisterMutation(mc MutationCreator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mutationCreators = append(r.mutationCreators, mc)
}

// RegisterConnection mounts a connection as a root query field named
// after the connection.
func (r *Registry) RegisterConnection(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections = append(r.connections, c)
}

// TypeRef returns a thunk resolving the named registered type on first
// use. Unresolvable names are reported as configuration errors by Build.
func (r *Registry) TypeRef(name string) TypeThunk {
	r.mu.Lock()
	r.wantedRefs[name] = true
	r.mu.Unlock()

	// The lookup fires during or after the build, when r.types is no
	// longer written, so it needs no lock of its own.
	return memoizeThunk(func() graphql.Output {
		if out, ok := r.types[name].(graphql.Output); ok {
			return out
		}
		return nil
	})
}

// Schema builds the executable schema on first call and memoizes it.
// Configuration errors abort the build and are returned on every
// subsequent call; nothing is partially registered. All registration
// must have happened before the first call.
func (r *Registry) Schema() (*graphql.Schema, error) {
	r.buildOnce.Do(func() {
		r.schema, r.buildErr = r.build()
	})
	return r.schema, r.buildErr
}

func (r *Registry) build() (*graphql.Schema, error) {
	// Create all types first so lazy references resolve regardless of
	// registration order.
	for _, tc := range r.typeCreators {
		name := tc.TypeName()
		if _, exists := r.types[name]; exists {
			return nil, configErrorf(name, "duplicate type name")
		}
		t, err := tc.CreateType(r)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, configErrorf(name, "type creator returned no type")
		}
		r.types[name] = t
	}

	for name := range r.wantedRefs {
		if _, ok := r.types[name]; !ok {
			return nil, configErrorf(name, "referenced type is not registered")
		}
	}

	queries := graphql.Fields{}
	for _, qc := range r.queryCreators {
		name := qc.QueryName()
		if _, exists := queries[name]; exists {
			return nil, configErrorf(name, "duplicate query name")
		}
		field, err := qc.CreateQuery(r)
		if err != nil {
			return nil, err
		}
		queries[name] = field
	}

	for _, c := range r.connections {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, exists := queries[c.Name()]; exists {
			return nil, configErrorf(c.Name(), "duplicate query name")
		}
		queries[c.Name()] = c.Field()
	}

	if len(queries) == 0 {
		return nil, configErrorf("", "schema has no query fields")
	}

	config := graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: queries,
		}),
	}

	if len(r.mutationCreators) > 0 {
		mutations := graphql.Fields{}
		for _, mc := range r.mutationCreators {
			name := mc.MutationName()
			if _, exists := mutations[name]; exists {
				return nil, configErrorf(name, "duplicate mutation name")
			}
			field, err := mc.CreateMutation(r)
			if err != nil {
				return nil, err
			}
			mutations[name] = field
		}
		config.Mutation = graphql.NewObject(graphql.ObjectConfig{
			Name:   "Mutation",
			Fields: mutations,
		})
	}

	built, err := graphql.NewSchema(config)
	if err != nil {
		return nil, configErrorf("", "schema construction failed: %v", err)
	}

	log.Debug().
		Int("types", len(r.types)).
		Int("queries", len(queries)).
		Int("connections", len(r.connections)).
		Msg("GraphQL schema built")

	return &built, nil
}
