package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/pagination"
)

// GenreStorage implements ports.GenreRepository on the genres collection.
type GenreStorage struct {
	db     *mongo.Database
	logger *slog.Logger
}

var _ ports.GenreRepository = (*GenreStorage)(nil)

func (s *GenreStorage) coll() *mongo.Collection {
	return s.db.Collection(genresCollection)
}

func (s *GenreStorage) Create(ctx context.Context, name string) (*domain.Genre, error) {
	ts := now()
	doc := genreDocument{ID: bson.NewObjectID(), Name: name, CreatedAt: ts, UpdatedAt: ts}
	if _, err := s.coll().InsertOne(ctx, doc); err != nil {
		err = translateError(err)
		s.logger.Warn("failed to create genre", "name", name, "error", err)
		return nil, fmt.Errorf("create genre %q: %w", name, err)
	}

	s.logger.Info("genre created", "id", doc.ID.Hex(), "name", name)
	genre := doc.toDomain()
	return &genre, nil
}

func (s *GenreStorage) FindByID(ctx context.Context, id string) (*domain.Genre, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": oid}, id)
}

func (s *GenreStorage) FindByName(ctx context.Context, name string) (*domain.Genre, error) {
	return s.findOne(ctx, bson.M{"name": name}, name)
}

func (s *GenreStorage) findOne(ctx context.Context, filter bson.M, key string) (*domain.Genre, error) {
	var doc genreDocument
	if err := s.coll().FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, fmt.Errorf("find genre %q: %w", key, translateError(err))
	}
	genre := doc.toDomain()
	return &genre, nil
}

// FindOrCreate upserts on the unique name. Two concurrent upserts can race
// on the index; the loser reads the winner's document.
func (s *GenreStorage) FindOrCreate(ctx context.Context, name string) (*domain.Genre, error) {
	ts := now()
	update := bson.M{"$setOnInsert": bson.M{
		"_id":       bson.NewObjectID(),
		"createdAt": ts,
		"updatedAt": ts,
	}}

	var doc genreDocument
	err := s.coll().FindOneAndUpdate(ctx,
		bson.M{"name": name},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		return s.FindByName(ctx, name)
	}
	if err != nil {
		s.logger.Error("failed to upsert genre", "name", name, "error", err)
		return nil, fmt.Errorf("upsert genre %q: %w", name, err)
	}

	genre := doc.toDomain()
	return &genre, nil
}

func (s *GenreStorage) FindAll(ctx context.Context, window pagination.Window) ([]domain.Genre, int64, error) {
	start := time.Now()

	total, err := s.coll().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count genres: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if window.Paged() {
		opts.SetSkip(int64(window.Skip)).SetLimit(int64(window.Take))
	}
	cur, err := s.coll().Find(ctx, bson.M{}, opts)
	if err != nil {
		s.logger.Error("failed to list genres", "error", err)
		return nil, 0, fmt.Errorf("list genres: %w", err)
	}
	var docs []genreDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode genres: %w", err)
	}

	genres := make([]domain.Genre, 0, len(docs))
	for _, d := range docs {
		genres = append(genres, d.toDomain())
	}

	s.logger.Debug("genres listed",
		"found", len(genres),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return genres, total, nil
}

func (s *GenreStorage) Update(ctx context.Context, id string, name string) (*domain.Genre, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc genreDocument
	err = s.coll().FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"name": name, "updatedAt": now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("update genre %s: %w", id, translateError(err))
	}
	genre := doc.toDomain()
	return &genre, nil
}

// Delete removes the genre and pulls its id out of every movie.
func (s *GenreStorage) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.coll().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete genre %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete genre %s: %w", id, domain.ErrNotFound)
	}

	if _, err := s.db.Collection(moviesCollection).UpdateMany(ctx,
		bson.M{"genreIds": oid},
		bson.M{"$pull": bson.M{"genreIds": oid}},
	); err != nil {
		return fmt.Errorf("unlink genre %s: %w", id, err)
	}

	s.logger.Info("genre deleted", "id", id)
	return nil
}
