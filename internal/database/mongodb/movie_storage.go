package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/pagination"
)

// MovieStorage implements ports.MovieRepository on the movies collection and
// keeps the owner's movies array in step.
type MovieStorage struct {
	db     *mongo.Database
	logger *slog.Logger
}

var _ ports.MovieRepository = (*MovieStorage)(nil)

func (s *MovieStorage) coll() *mongo.Collection {
	return s.db.Collection(moviesCollection)
}

// checkGenres fails with ErrNotFound unless every id names a stored genre.
func (s *MovieStorage) checkGenres(ctx context.Context, ids []bson.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := s.db.Collection(genresCollection).CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("check genres: %w", err)
	}
	if n != int64(len(ids)) {
		return fmt.Errorf("genre: %w", domain.ErrNotFound)
	}
	return nil
}

func (s *MovieStorage) one(ctx context.Context, doc movieDocument) (*domain.Movie, error) {
	movies, err := populateMovies(ctx, s.db, []movieDocument{doc})
	if err != nil {
		return nil, err
	}
	return &movies[0], nil
}

func (s *MovieStorage) Create(ctx context.Context, movie domain.NewMovie) (*domain.Movie, error) {
	start := time.Now()

	userID, err := parseID(movie.UserID)
	if err != nil {
		return nil, fmt.Errorf("create movie: owner: %w", err)
	}
	genreIDs, err := parseIDs(movie.GenreIDs)
	if err != nil {
		return nil, fmt.Errorf("create movie: genre: %w", err)
	}
	if err := s.checkGenres(ctx, genreIDs); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}

	ts := now()
	doc := movieDocument{
		ID:          bson.NewObjectID(),
		Title:       movie.Title,
		Year:        movie.Year,
		Description: movie.Description,
		Language:    movie.Language,
		GenreIDs:    genreIDs,
		UserID:      userID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if movie.Image != nil {
		doc.Image = &imageDocument{PublicID: movie.Image.PublicID, SecureURL: movie.Image.SecureURL}
	}

	if _, err := s.coll().InsertOne(ctx, doc); err != nil {
		s.logger.Error("failed to insert movie", "user_id", movie.UserID, "error", err)
		return nil, fmt.Errorf("create movie: %w", translateError(err))
	}

	res, err := s.db.Collection(usersCollection).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"movies": doc.ID}, "$set": bson.M{"updatedAt": ts}},
	)
	if err == nil && res.MatchedCount == 0 {
		err = domain.ErrNotFound
	}
	if err != nil {
		if _, delErr := s.coll().DeleteOne(ctx, bson.M{"_id": doc.ID}); delErr != nil {
			s.logger.Error("failed to roll back orphan movie", "id", doc.ID.Hex(), "error", delErr)
		}
		return nil, fmt.Errorf("create movie: owner: %w", err)
	}

	s.logger.Info("movie created",
		"id", doc.ID.Hex(),
		"user_id", movie.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s.one(ctx, doc)
}

func (s *MovieStorage) FindByID(ctx context.Context, id string) (*domain.Movie, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc movieDocument
	if err := s.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("find movie %s: %w", id, translateError(err))
	}
	return s.one(ctx, doc)
}

func movieQuery(filter domain.MovieFilter) (bson.M, bool) {
	q := bson.M{}
	if filter.UserID != "" {
		oid, err := parseID(filter.UserID)
		if err != nil {
			return nil, false
		}
		q["userId"] = oid
	}
	if filter.GenreID != "" {
		oid, err := parseID(filter.GenreID)
		if err != nil {
			return nil, false
		}
		q["genreIds"] = oid
	}
	if title := strings.TrimSpace(filter.Title); title != "" {
		q["title"] = bson.M{"$regex": regexp.QuoteMeta(title), "$options": "i"}
	}
	if filter.Year != nil {
		q["year"] = *filter.Year
	}
	return q, true
}

func (s *MovieStorage) FindAll(ctx context.Context, filter domain.MovieFilter, window pagination.Window) ([]domain.Movie, int64, error) {
	start := time.Now()

	q, ok := movieQuery(filter)
	if !ok {
		return []domain.Movie{}, 0, nil
	}

	total, err := s.coll().CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if window.Paged() {
		opts.SetSkip(int64(window.Skip)).SetLimit(int64(window.Take))
	}
	cur, err := s.coll().Find(ctx, q, opts)
	if err != nil {
		s.logger.Error("failed to list movies", "page", window.Page, "error", err)
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}
	var docs []movieDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode movies: %w", err)
	}

	movies, err := populateMovies(ctx, s.db, docs)
	if err != nil {
		return nil, 0, err
	}

	s.logger.Debug("movies listed",
		"found", len(movies),
		"total", total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return movies, total, nil
}

func (s *MovieStorage) Update(ctx context.Context, id string, patch domain.MoviePatch) (*domain.Movie, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": now()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Year != nil {
		set["year"] = *patch.Year
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Language != nil {
		set["language"] = *patch.Language
	}
	if patch.GenreIDs != nil {
		genreIDs, err := parseIDs(patch.GenreIDs)
		if err != nil {
			return nil, fmt.Errorf("update movie %s: genre: %w", id, err)
		}
		if err := s.checkGenres(ctx, genreIDs); err != nil {
			return nil, fmt.Errorf("update movie %s: %w", id, err)
		}
		set["genreIds"] = genreIDs
	}
	if patch.Image != nil {
		set["image"] = imageDocument{PublicID: patch.Image.PublicID, SecureURL: patch.Image.SecureURL}
	}

	var doc movieDocument
	err = s.coll().FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		err = translateError(err)
		s.logger.Error("failed to update movie", "id", id, "error", err)
		return nil, fmt.Errorf("update movie %s: %w", id, err)
	}

	s.logger.Info("movie updated", "id", id)
	return s.one(ctx, doc)
}

// Delete removes the movie and pulls its id out of the owner's movies array.
func (s *MovieStorage) Delete(ctx context.Context, id string) (*domain.Movie, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc movieDocument
	if err := s.coll().FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("delete movie %s: %w", id, translateError(err))
	}

	_, err = s.db.Collection(usersCollection).UpdateOne(ctx,
		bson.M{"_id": doc.UserID},
		bson.M{"$pull": bson.M{"movies": doc.ID}},
	)
	if err != nil {
		s.logger.Error("failed to unlink movie from owner", "id", id, "user_id", doc.UserID.Hex(), "error", err)
		return nil, fmt.Errorf("unlink movie %s: %w", id, err)
	}

	s.logger.Info("movie deleted", "id", id)
	return s.one(ctx, doc)
}
