package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coralcms/coral/internal/api"
	"github.com/coralcms/coral/internal/cms"
	"github.com/coralcms/coral/internal/config"
	"github.com/coralcms/coral/internal/pgsource"
	"github.com/coralcms/coral/internal/schema"
	"github.com/gofiber/fiber/v3"
	"github.com/graphql-go/graphql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GraphQL server",
	Long: `Start the GraphQL server with the member/group content schema.

When a database URL is configured, a "pages" connection backed by the
pages table is registered as well.

Examples:
  coral serve
  coral serve --config coral.yaml
  CORAL_SERVER_ADDRESS=:9000 coral serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	if !cfg.GraphQL.Enabled {
		return fmt.Errorf("graphql endpoint is disabled in configuration")
	}

	registry := schema.NewRegistry()
	if err := cms.Register(registry, cms.SeedStore(), &cfg.GraphQL); err != nil {
		return err
	}

	var pool *pgxpool.Pool
	if cfg.Database.URL != "" {
		pool, err = pgxpool.New(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to create database pool: %w", err)
		}
		defer pool.Close()
		registerPages(registry, pool, cfg)
	}

	// Build eagerly so configuration errors abort startup instead of
	// surfacing on the first request.
	if _, err := registry.Schema(); err != nil {
		return err
	}

	handler := api.NewGraphQLHandler(registry, &cfg.GraphQL)
	defer handler.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})
	handler.RegisterRoutes(app)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Server.Address)
	}()

	log.Info().
		Str("address", cfg.Server.Address).
		Str("path", cfg.GraphQL.Path).
		Bool("introspection", cfg.GraphQL.Introspection).
		Msg("GraphQL server started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
		return app.ShutdownWithContext(context.Background())
	}
}

// registerPages mounts a connection over the pages table. Filtering and
// sorting run in SQL through the table source.
func registerPages(registry *schema.Registry, pool *pgxpool.Pool, cfg *config.Config) {
	pageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Page",
		Fields: graphql.Fields{
			"ID":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"Title":      &graphql.Field{Type: graphql.String},
			"URLSegment": &graphql.Field{Type: graphql.String},
			"Created":    &graphql.Field{Type: graphql.DateTime},
		},
	})

	columns := map[string]string{
		"ID":         "id",
		"Title":      "title",
		"URLSegment": "url_segment",
		"Created":    "created_at",
	}

	registry.RegisterConnection(schema.NewConnection("pages").
		WithElementType(schema.StaticType(pageType)).
		WithArgs(graphql.FieldConfigArgument{
			"URLSegment": &graphql.ArgumentConfig{Type: graphql.String},
		}).
		WithSortableFields("Title", "Created").
		WithDefaultLimit(cfg.GraphQL.DefaultPageSize).
		WithMaximumLimit(cfg.GraphQL.MaxPageSize).
		WithResolver(func(p graphql.ResolveParams) (schema.ListSource, error) {
			return pgsource.NewTableSource(pool, "pages", columns, cfg.Database.LogQueries), nil
		}))
}
