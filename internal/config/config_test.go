package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.Server.Address)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.True(t, cfg.GraphQL.Enabled)
	assert.Equal(t, "/api/v1/graphql", cfg.GraphQL.Path)
	assert.Equal(t, 10, cfg.GraphQL.MaxDepth)
	assert.Equal(t, 1000, cfg.GraphQL.MaxComplexity)
	assert.Equal(t, 100, cfg.GraphQL.DefaultPageSize)
	assert.Equal(t, 100, cfg.GraphQL.MaxPageSize)
	assert.False(t, cfg.GraphQL.AllowFragments)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/coral.yaml")
	require.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("empty server address", func(t *testing.T) {
		cfg := valid()
		cfg.Server.Address = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("database url requires pool size", func(t *testing.T) {
		cfg := valid()
		cfg.Database.URL = "postgres://localhost/coral"
		cfg.Database.MaxConnections = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestGraphQLConfig_Validate(t *testing.T) {
	valid := func() GraphQLConfig {
		return GraphQLConfig{
			Enabled:         true,
			Path:            "/api/v1/graphql",
			MaxDepth:        10,
			MaxComplexity:   1000,
			MaxFieldsPerLvl: 50,
			DefaultPageSize: 100,
			MaxPageSize:     100,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*GraphQLConfig)
		wantErr string
	}{
		{"valid", func(gc *GraphQLConfig) {}, ""},
		{"disabled skips validation", func(gc *GraphQLConfig) { *gc = GraphQLConfig{Enabled: false} }, ""},
		{"empty path", func(gc *GraphQLConfig) { gc.Path = "" }, "path"},
		{"zero max depth", func(gc *GraphQLConfig) { gc.MaxDepth = 0 }, "max_depth"},
		{"zero max complexity", func(gc *GraphQLConfig) { gc.MaxComplexity = 0 }, "max_complexity"},
		{"zero fields per level", func(gc *GraphQLConfig) { gc.MaxFieldsPerLvl = 0 }, "max_fields_per_lvl"},
		{"zero default page size", func(gc *GraphQLConfig) { gc.DefaultPageSize = 0 }, "default_page_size"},
		{"zero max page size", func(gc *GraphQLConfig) { gc.MaxPageSize = 0 }, "max_page_size"},
		{"default above maximum", func(gc *GraphQLConfig) { gc.DefaultPageSize = 200 }, "exceeds max_page_size"},
		{"negative rate limit", func(gc *GraphQLConfig) { gc.RateLimitPerMin = -1 }, "rate_limit_per_min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gc := valid()
			tt.mutate(&gc)
			err := gc.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
