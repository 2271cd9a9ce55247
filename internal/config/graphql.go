package config

import "fmt"

// GraphQLConfig contains GraphQL API settings
type GraphQLConfig struct {
	Enabled         bool   `mapstructure:"enabled"`            // Enable GraphQL API endpoint
	Path            string `mapstructure:"path"`               // Endpoint path (default: /api/v1/graphql)
	MaxDepth        int    `mapstructure:"max_depth"`          // Maximum query depth (default: 10)
	MaxComplexity   int    `mapstructure:"max_complexity"`     // Maximum query complexity score (default: 1000)
	Introspection   bool   `mapstructure:"introspection"`      // Enable GraphQL introspection (default: true in dev, false in prod)
	AllowFragments  bool   `mapstructure:"allow_fragments"`    // Allow fragment spreads in queries (default: false for security)
	MaxFieldsPerLvl int    `mapstructure:"max_fields_per_lvl"` // Maximum unique fields per query level (default: 50)
	DefaultPageSize int    `mapstructure:"default_page_size"`  // Connection page size when limit is omitted (default: 100)
	MaxPageSize     int    `mapstructure:"max_page_size"`      // Connection page size ceiling, larger requests are clamped (default: 100)
	RateLimitPerMin int    `mapstructure:"rate_limit_per_min"` // Requests per minute per client, 0 disables limiting
}

// Validate validates GraphQL configuration
func (gc *GraphQLConfig) Validate() error {
	if !gc.Enabled {
		return nil // No validation needed if disabled
	}

	if gc.Path == "" {
		return fmt.Errorf("graphql path cannot be empty when enabled")
	}

	if gc.MaxDepth < 1 {
		return fmt.Errorf("graphql max_depth must be at least 1, got: %d", gc.MaxDepth)
	}

	if gc.MaxComplexity < 1 {
		return fmt.Errorf("graphql max_complexity must be at least 1, got: %d", gc.MaxComplexity)
	}

	if gc.MaxFieldsPerLvl < 1 {
		return fmt.Errorf("graphql max_fields_per_lvl must be at least 1, got: %d", gc.MaxFieldsPerLvl)
	}

	if gc.DefaultPageSize < 1 {
		return fmt.Errorf("graphql default_page_size must be at least 1, got: %d", gc.DefaultPageSize)
	}

	if gc.MaxPageSize < 1 {
		return fmt.Errorf("graphql max_page_size must be at least 1, got: %d", gc.MaxPageSize)
	}

	if gc.DefaultPageSize > gc.MaxPageSize {
		return fmt.Errorf("graphql default_page_size %d exceeds max_page_size %d", gc.DefaultPageSize, gc.MaxPageSize)
	}

	if gc.RateLimitPerMin < 0 {
		return fmt.Errorf("graphql rate_limit_per_min cannot be negative, got: %d", gc.RateLimitPerMin)
	}

	return nil
}
