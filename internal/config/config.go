package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address      string        `mapstructure:"address"`       // Listen address (default: :8090)
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`  // Request read timeout
	WriteTimeout time.Duration `mapstructure:"write_timeout"` // Response write timeout
}

// Validate validates server configuration
func (sc *ServerConfig) Validate() error {
	if sc.Address == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if sc.ReadTimeout < 0 {
		return fmt.Errorf("server read_timeout cannot be negative, got: %v", sc.ReadTimeout)
	}
	if sc.WriteTimeout < 0 {
		return fmt.Errorf("server write_timeout cannot be negative, got: %v", sc.WriteTimeout)
	}
	return nil
}

// DatabaseConfig contains Postgres connection settings for table-backed
// connections. Optional; without a URL the server runs on in-memory
// sources only.
type DatabaseConfig struct {
	URL            string `mapstructure:"url"`              // Postgres connection URL
	MaxConnections int    `mapstructure:"max_connections"`  // Pool size (default: 10)
	LogQueries     bool   `mapstructure:"log_queries"`      // Log generated SQL at debug level (sanitized)
}

// Validate validates database configuration
func (dc *DatabaseConfig) Validate() error {
	if dc.URL == "" {
		return nil
	}
	if dc.MaxConnections < 1 {
		return fmt.Errorf("database max_connections must be at least 1, got: %d", dc.MaxConnections)
	}
	return nil
}

// Config is the root configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	GraphQL  GraphQLConfig  `mapstructure:"graphql"`
	LogLevel string         `mapstructure:"log_level"` // trace, debug, info, warn, error
}

// Validate validates the full configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.GraphQL.Validate(); err != nil {
		return err
	}
	return nil
}

// Load reads configuration from an optional config file, the environment
// (CORAL_ prefix) and an optional .env file, applies defaults, then
// validates the result.
func Load(path string) (*Config, error) {
	// .env is a convenience for local development; missing files are fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CORAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("server.address", ":8090")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.log_queries", false)

	v.SetDefault("graphql.enabled", true)
	v.SetDefault("graphql.path", "/api/v1/graphql")
	v.SetDefault("graphql.max_depth", 10)
	v.SetDefault("graphql.max_complexity", 1000)
	v.SetDefault("graphql.introspection", true)
	v.SetDefault("graphql.allow_fragments", false)
	v.SetDefault("graphql.max_fields_per_lvl", 50)
	v.SetDefault("graphql.default_page_size", 100)
	v.SetDefault("graphql.max_page_size", 100)
	v.SetDefault("graphql.rate_limit_per_min", 0)
}
