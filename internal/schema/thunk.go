package schema

import (
	"sync"

	"github.com/graphql-go/graphql"
)

// TypeThunk is a deferred reference to a GraphQL type. Connections and
// creators accept thunks instead of concrete types so mutually referencing
// types (Member <-> Group) can be registered in any order.
type TypeThunk func() graphql.Output

// StaticType wraps an already-built type in a thunk.
func StaticType(t graphql.Output) TypeThunk {
	return func() graphql.Output { return t }
}

// memoizeThunk resolves the thunk on first use and reuses the result.
// Built type objects are immutable, so sharing the resolved value across
// requests is safe.
func memoizeThunk(thunk TypeThunk) TypeThunk {
	var once sync.Once
	var resolved graphql.Output
	return func() graphql.Output {
		once.Do(func() { resolved = thunk() })
		return resolved
	}
}
