package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/roomforge/internal/api"
	"github.com/matzehuels/roomforge/pkg/cache"
	"github.com/matzehuels/roomforge/pkg/pipeline"
)

// shutdownGrace is how long in-flight requests get to finish on shutdown.
const shutdownGrace = 15 * time.Second

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		mongoURI string
		mongoDB  string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API server",
		Long: `Run the layout HTTP API server.

The server exposes synchronous solve and validate endpoints plus an
asynchronous job interface:

  GET  /health
  POST /v1/layouts/solve
  POST /v1/layouts/validate
  POST /v1/jobs
  GET  /v1/jobs/{id}

With --redis, solve results are cached in Redis and job progress streams
onto per-job Redis streams. With --mongo, job state is shared across
instances via MongoDB; otherwise jobs live in process memory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Addr
			}
			if addr == "" {
				addr = ":8080"
			}
			if redisURL == "" {
				redisURL = c.Config.RedisURL
			}
			if mongoURI == "" {
				mongoURI = c.Config.MongoURI
			}
			if mongoDB == "" {
				mongoDB = c.Config.MongoDB
			}
			if mongoDB == "" {
				mongoDB = appName
			}
			return c.runServe(cmd.Context(), addr, redisURL, mongoURI, mongoDB, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for caching and progress streams")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for shared job state")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "", "MongoDB database name (default roomforge)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")

	return cmd
}

// runServe wires the cache, job store, and progress streaming, then serves
// until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, redisURL, mongoURI, mongoDB string, noCache bool) error {
	var (
		store       cache.Cache
		redisClient *redis.Client
		err         error
	)
	switch {
	case noCache:
		store = cache.NewNullCache()
	case redisURL != "":
		store, err = cache.NewRedisCache(ctx, redisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		redisOpts, err := redis.ParseURL(redisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		redisClient = redis.NewClient(redisOpts)
	default:
		store, err = c.newCache(false)
		if err != nil {
			return fmt.Errorf("initialize cache: %w", err)
		}
	}

	var jobs api.JobStore
	if mongoURI != "" {
		jobs, err = api.NewMongoJobStore(ctx, mongoURI, mongoDB)
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
	}

	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	server := api.NewServer(runner, jobs, redisClient, c.Logger)
	defer server.Close(context.Background())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("api listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
