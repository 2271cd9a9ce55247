package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/coralcms/coral/internal/config"
	"github.com/coralcms/coral/internal/ratelimit"
	"github.com/coralcms/coral/internal/schema"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/rs/zerolog/log"
)

type contextKey string

// PrincipalContextKey is where the handler places whatever the auth
// middleware stored under the "principal" local. The value is opaque to
// this package.
const PrincipalContextKey contextKey = "principal"

// GraphQLHandler handles GraphQL HTTP requests
type GraphQLHandler struct {
	registry *schema.Registry
	config   *config.GraphQLConfig
	limiter  ratelimit.Store
}

// GraphQLRequest represents a GraphQL HTTP request body
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL HTTP response body
type GraphQLResponse struct {
	Data   interface{}    `json:"data,omitempty"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message   string                 `json:"message"`
	Locations []GraphQLErrorLocation `json:"locations,omitempty"`
	Path      []interface{}          `json:"path,omitempty"`
}

// GraphQLErrorLocation represents the location of a GraphQL error in the query
type GraphQLErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// NewGraphQLHandler creates a new GraphQL handler serving the given
// registry's schema.
func NewGraphQLHandler(registry *schema.Registry, cfg *config.GraphQLConfig) *GraphQLHandler {
	h := &GraphQLHandler{
		registry: registry,
		config:   cfg,
	}
	if cfg.RateLimitPerMin > 0 {
		h.limiter = ratelimit.NewMemoryStore(10 * time.Minute)
	}
	return h
}

// HandleGraphQL handles POST requests against the GraphQL endpoint
func (h *GraphQLHandler) HandleGraphQL(c fiber.Ctx) error {
	startTime := time.Now()
	requestID := uuid.NewString()
	ctx := c.Context()

	if h.limiter != nil {
		count, err := h.limiter.Increment(ctx, "graphql:"+c.IP(), time.Minute)
		if err == nil && count > int64(h.config.RateLimitPerMin) {
			return c.Status(fiber.StatusTooManyRequests).JSON(GraphQLResponse{
				Errors: []GraphQLError{{
					Message: "Rate limit exceeded",
				}},
			})
		}
	}

	// Parse request body
	var req GraphQLRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(GraphQLResponse{
			Errors: []GraphQLError{{
				Message: "Invalid JSON in request body",
			}},
		})
	}

	if req.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(GraphQLResponse{
			Errors: []GraphQLError{{
				Message: "Query string is required",
			}},
		})
	}

	// Pre-execution guards over the parsed query shape
	stats, err := analyzeQuery(req.Query)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(GraphQLResponse{
			Errors: []GraphQLError{{
				Message: "Invalid query syntax",
			}},
		})
	}
	if msg := h.checkQueryStats(stats); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(GraphQLResponse{
			Errors: []GraphQLError{{
				Message: msg,
			}},
		})
	}

	gqlSchema, err := h.registry.Schema()
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("Failed to get GraphQL schema")
		return c.Status(fiber.StatusInternalServerError).JSON(GraphQLResponse{
			Errors: []GraphQLError{{
				Message: "Failed to initialize GraphQL schema",
			}},
		})
	}

	// Thread the authenticated principal through to resolver hooks. The
	// value is whatever the auth middleware stored; it is not inspected
	// here.
	if principal := c.Locals("principal"); principal != nil {
		ctx = context.WithValue(ctx, PrincipalContextKey, principal)
	}

	result := graphql.Do(graphql.Params{
		Schema:         *gqlSchema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})

	duration := time.Since(startTime)
	log.Debug().
		Str("request_id", requestID).
		Str("operation", req.OperationName).
		Int("errors", len(result.Errors)).
		Dur("duration", duration).
		Msg("GraphQL query executed")

	return c.JSON(GraphQLResponse{
		Data:   result.Data,
		Errors: convertErrors(result.Errors),
	})
}

// checkQueryStats applies the configured limits to the analyzed query.
// An empty return means the query may execute.
func (h *GraphQLHandler) checkQueryStats(stats *queryStats) string {
	if h.config.MaxDepth > 0 && stats.Depth > h.config.MaxDepth {
		return fmt.Sprintf("query depth %d exceeds maximum allowed depth of %d", stats.Depth, h.config.MaxDepth)
	}
	if !h.config.AllowFragments && stats.HasFragmentSpreads {
		return "Fragment spreads are not allowed for security reasons"
	}
	if h.config.MaxFieldsPerLvl > 0 && stats.MaxFieldsPerLevel > h.config.MaxFieldsPerLvl {
		return fmt.Sprintf("query has %d unique fields at a level, maximum allowed is %d", stats.MaxFieldsPerLevel, h.config.MaxFieldsPerLvl)
	}
	if h.config.MaxComplexity > 0 && stats.Complexity > h.config.MaxComplexity {
		return fmt.Sprintf("query complexity %d exceeds maximum of %d", stats.Complexity, h.config.MaxComplexity)
	}
	return ""
}

// HandleIntrospection handles GET requests (returns introspection data)
func (h *GraphQLHandler) HandleIntrospection(c fiber.Ctx) error {
	if !h.config.Introspection {
		return c.Status(fiber.StatusForbidden).JSON(GraphQLResponse{
			Errors: []GraphQLError{{
				Message: "Introspection is disabled",
			}},
		})
	}

	gqlSchema, err := h.registry.Schema()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(GraphQLResponse{
			Errors: []GraphQLError{{
				Message: "Failed to initialize GraphQL schema",
			}},
		})
	}

	result := graphql.Do(graphql.Params{
		Schema:        *gqlSchema,
		RequestString: introspectionQuery,
		Context:       c.Context(),
	})

	return c.JSON(GraphQLResponse{
		Data:   result.Data,
		Errors: convertErrors(result.Errors),
	})
}

// RegisterRoutes registers GraphQL routes with the Fiber app
func (h *GraphQLHandler) RegisterRoutes(app *fiber.App) {
	group := app.Group(h.config.Path)
	group.Post("/", h.HandleGraphQL)
	group.Get("/", h.HandleIntrospection)
}

// Close releases the handler's rate limit store.
func (h *GraphQLHandler) Close() error {
	if h.limiter != nil {
		return h.limiter.Close()
	}
	return nil
}

// convertErrors converts graphql-go errors to the response format
func convertErrors(errors []gqlerrors.FormattedError) []GraphQLError {
	if len(errors) == 0 {
		return nil
	}

	result := make([]GraphQLError, len(errors))
	for i, err := range errors {
		gqlErr := GraphQLError{
			Message: err.Message,
			Path:    err.Path,
		}
		if len(err.Locations) > 0 {
			gqlErr.Locations = make([]GraphQLErrorLocation, len(err.Locations))
			for j, loc := range err.Locations {
				gqlErr.Locations[j] = GraphQLErrorLocation{
					Line:   loc.Line,
					Column: loc.Column,
				}
			}
		}
		result[i] = gqlErr
	}
	return result
}

// Standard GraphQL introspection query
const introspectionQuery = `
query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    types {
      ...FullType
    }
    directives {
      name
      description
      locations
      args {
        ...InputValue
      }
    }
  }
}

fragment FullType on __Type {
  kind
  name
  description
  fields(includeDeprecated: true) {
    name
    description
    args {
      ...InputValue
    }
    type {
      ...TypeRef
    }
    isDeprecated
    deprecationReason
  }
  inputFields {
    ...InputValue
  }
  interfaces {
    ...TypeRef
  }
  enumValues(includeDeprecated: true) {
    name
    description
    isDeprecated
    deprecationReason
  }
  possibleTypes {
    ...TypeRef
  }
}

fragment InputValue on __InputValue {
  name
  description
  type { ...TypeRef }
  defaultValue
}

fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
      }
    }
  }
}
`
