package schema

import "github.com/graphql-go/graphql"

// TypeCreator adapts a model definition into a GraphQL object type.
// CreateType may reference other registered types lazily through
// Registry.TypeRef, so mutually referencing creators can be registered in
// any order.
type TypeCreator interface {
	TypeName() string
	CreateType(r *Registry) (graphql.Type, error)
}

// QueryCreator registers a named root query field.
type QueryCreator interface {
	QueryName() string
	CreateQuery(r *Registry) (*graphql.Field, error)
}

// MutationCreator registers a named root mutation field.
type MutationCreator interface {
	MutationName() string
	CreateMutation(r *Registry) (*graphql.Field, error)
}

// TypeCreatorFunc adapts a plain function into a TypeCreator.
type TypeCreatorFunc struct {
	Name   string
	Create func(r *Registry) (graphql.Type, error)
}

func (f TypeCreatorFunc) TypeName() string { return f.Name }

func (f TypeCreatorFunc) CreateType(r *Registry) (graphql.Type, error) { return f.Create(r) }

// QueryCreatorFunc adapts a plain function into a QueryCreator.
type QueryCreatorFunc struct {
	Name   string
	Create func(r *Registry) (*graphql.Field, error)
}

func (f QueryCreatorFunc) QueryName() string { return f.Name }

func (f QueryCreatorFunc) CreateQuery(r *Registry) (*graphql.Field, error) { return f.Create(r) }

// MutationCreatorFunc adapts a plain function into a MutationCreator.
type MutationCreatorFunc struct {
	Name   string
	Create func(r *Registry) (*graphql.Field, error)
}

func (f MutationCreatorFunc) MutationName() string { return f.Name }

func (f MutationCreatorFunc) CreateMutation(r *Registry) (*graphql.Field, error) {
	return f.Create(r)
}
