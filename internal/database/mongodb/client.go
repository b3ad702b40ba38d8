// Package mongodb is the document backend: users embed the ids of their
// movies, movies embed their genre ids and image.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
)

const (
	usersCollection  = "users"
	moviesCollection = "movies"
	genresCollection = "genres"
)

// Client is the MongoDB datastore.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger

	users  *UserStorage
	movies *MovieStorage
	genres *GenreStorage
}

var _ ports.Datastore = (*Client)(nil)

// NewClient connects to uri, verifies the connection and ensures the
// indexes the repositories rely on.
func NewClient(ctx context.Context, uri, database string, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		logger.Error("failed to create MongoDB client", "error", err)
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("failed to ping MongoDB", "error", err)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	c := &Client{client: client, db: db, logger: logger}
	c.users = &UserStorage{db: db, logger: logger}
	c.movies = &MovieStorage{db: db, logger: logger}
	c.genres = &GenreStorage{db: db, logger: logger}

	logger.Info("MongoDB connection established successfully",
		"database", database,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return c, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		genresCollection: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		moviesCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
			{Keys: bson.D{{Key: "genreIds", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

func (c *Client) Users() ports.UserRepository   { return c.users }
func (c *Client) Movies() ports.MovieRepository { return c.movies }
func (c *Client) Genres() ports.GenreRepository { return c.genres }

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close(ctx context.Context) error {
	if err := c.client.Disconnect(ctx); err != nil {
		c.logger.Error("failed to disconnect MongoDB", "error", err)
		return err
	}
	c.logger.Info("MongoDB connection closed")
	return nil
}
