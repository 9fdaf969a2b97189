package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/engrave/internal/server"
	"github.com/matzehuels/engrave/pkg/cache"
	"github.com/matzehuels/engrave/pkg/pipeline"
	"github.com/matzehuels/engrave/pkg/store"
)

// serveCommand creates the serve command for running the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redis    string
		mongoURI string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP engraving service",
		Long: `Run the HTTP engraving service.

The service exposes the engraving pipeline over HTTP: POST a score to
/api/render and fetch stored layouts from /api/layouts. Without --redis
the render cache is in the local cache directory; without --mongo
layouts are kept in memory and lost on restart.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redis, mongoURI)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redis, "redis", "", "Redis address for the render cache (e.g., localhost:6379)")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for layout storage (e.g., mongodb://localhost:27017)")

	return cmd
}

// runServe wires the cache, store, and runner, then blocks until the
// context is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, redis, mongoURI string) error {
	renderCache, err := c.serveCache(ctx, redis)
	if err != nil {
		return err
	}
	// Namespace keys when sharing a Redis instance with other services.
	var keyer cache.Keyer
	if redis != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+":")
	}
	runner := pipeline.NewRunner(renderCache, keyer, c.Logger)
	defer runner.Close()

	layoutStore, err := c.serveStore(ctx, mongoURI)
	if err != nil {
		return err
	}
	defer layoutStore.Close(context.Background())

	srv, err := server.New(server.Config{
		Runner: runner,
		Store:  layoutStore,
		Logger: c.Logger,
	})
	if err != nil {
		return err
	}

	printInfo("Serving on %s", addr)
	return srv.ListenAndServe(ctx, addr)
}

func (c *CLI) serveCache(ctx context.Context, redis string) (cache.Cache, error) {
	if redis != "" {
		rc, err := cache.NewRedisCache(ctx, redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", redis, err)
		}
		c.Logger.Info("using redis cache", "addr", redis)
		return rc, nil
	}
	return newCache(false)
}

func (c *CLI) serveStore(ctx context.Context, mongoURI string) (store.Store, error) {
	if mongoURI != "" {
		ms, err := store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI})
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		c.Logger.Info("using mongo store", "uri", mongoURI)
		return ms, nil
	}
	c.Logger.Warn("no --mongo given, layouts are stored in memory only")
	return store.NewMemoryStore(), nil
}
