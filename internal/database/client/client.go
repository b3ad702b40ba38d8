// Package client opens the datastore named by DATA_SOURCE.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/MovieCatalog/internal/config"
	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/database/mongodb"
	"github.com/GoArmGo/MovieCatalog/internal/database/postgres"
)

// Client wraps the selected backend. Exactly one backend is opened per process.
type Client struct {
	ports.Datastore
	kind   string
	logger *slog.Logger
}

// New opens the backend selected by cfg.DataSource.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	var (
		store ports.Datastore
		err   error
	)
	switch cfg.DataSource {
	case config.DataSourceMongo:
		store, err = mongodb.NewClient(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
	case config.DataSourcePostgres:
		store, err = postgres.NewClient(ctx, cfg.DatabaseURL, logger)
	default:
		return nil, fmt.Errorf("unsupported data source %q", cfg.DataSource)
	}
	if err != nil {
		logger.Error("failed to open datastore", "data_source", cfg.DataSource, "error", err)
		return nil, fmt.Errorf("open %s datastore: %w", cfg.DataSource, err)
	}

	logger.Info("datastore selected",
		"data_source", cfg.DataSource,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &Client{Datastore: store, kind: cfg.DataSource, logger: logger}, nil
}

// Kind returns the DATA_SOURCE value the client was opened with.
func (c *Client) Kind() string {
	return c.kind
}

func (c *Client) Close(ctx context.Context) error {
	start := time.Now()
	if err := c.Datastore.Close(ctx); err != nil {
		return fmt.Errorf("close %s datastore: %w", c.kind, err)
	}
	c.logger.Info("datastore closed", "data_source", c.kind, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
