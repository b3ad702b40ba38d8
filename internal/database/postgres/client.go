package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Client is the relational backend. GORM serves the repositories; the sqlx
// handle serves health checks and plain listing queries.
type Client struct {
	orm    *gorm.DB
	db     *sqlx.DB
	logger *slog.Logger

	users  *UserStorage
	movies *MovieStorage
	genres *GenreStorage
}

var _ ports.Datastore = (*Client)(nil)

// NewClient connects to PostgreSQL, applies pending migrations and builds
// the repositories.
func NewClient(ctx context.Context, databaseURL string, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	db, err := sqlx.ConnectContext(ctx, "postgres", databaseURL)
	if err != nil {
		logger.Error("failed to open PostgreSQL connection", "error", err)
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		logger.Error("failed to ping database", "error", err)
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := applyMigrations(databaseURL, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	orm, err := gorm.Open(gormpostgres.Open(databaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	if sqlDB, err := orm.DB(); err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	c := &Client{orm: orm, db: db, logger: logger}
	c.users = NewUserStorage(orm, logger)
	c.movies = NewMovieStorage(orm, logger)
	c.genres = NewGenreStorage(orm, db, logger)

	logger.Info("PostgreSQL connection established successfully",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return c, nil
}

// applyMigrations runs the embedded migrations up to the latest version.
func applyMigrations(databaseURL string, logger *slog.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn("failed to close migrator", "source_error", srcErr, "database_error", dbErr)
		}
	}()

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("database schema is up to date")
		return nil
	case err != nil:
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations applied successfully")
	return nil
}

func (c *Client) Users() ports.UserRepository   { return c.users }
func (c *Client) Movies() ports.MovieRepository { return c.movies }
func (c *Client) Genres() ports.GenreRepository { return c.genres }

// Ping verifies both connection pools.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return err
	}
	sqlDB, err := c.orm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases both connection pools.
func (c *Client) Close(_ context.Context) error {
	start := time.Now()

	var errs []error
	if sqlDB, err := c.orm.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	errs = append(errs, c.db.Close())
	if err := errors.Join(errs...); err != nil {
		c.logger.Error("failed to close database connection", "error", err)
		return err
	}

	c.logger.Info("database connection closed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
