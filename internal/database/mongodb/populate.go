package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/GoArmGo/MovieCatalog/internal/domain"
)

// populateMovies resolves the genre ids of every movie with a single query.
// Genres keep the order of the movie's genreIds array.
func populateMovies(ctx context.Context, db *mongo.Database, docs []movieDocument) ([]domain.Movie, error) {
	ids := make([]bson.ObjectID, 0)
	for _, d := range docs {
		ids = append(ids, d.GenreIDs...)
	}

	genres := make(map[bson.ObjectID]domain.Genre, len(ids))
	if len(ids) > 0 {
		cur, err := db.Collection(genresCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, fmt.Errorf("load genres: %w", err)
		}
		var found []genreDocument
		if err := cur.All(ctx, &found); err != nil {
			return nil, fmt.Errorf("decode genres: %w", err)
		}
		for _, g := range found {
			genres[g.ID] = g.toDomain()
		}
	}

	movies := make([]domain.Movie, 0, len(docs))
	for _, d := range docs {
		m := domain.Movie{
			ID:          d.ID.Hex(),
			Title:       d.Title,
			Year:        d.Year,
			Description: d.Description,
			Language:    d.Language,
			Genres:      make([]domain.Genre, 0, len(d.GenreIDs)),
			UserID:      d.UserID.Hex(),
			CreatedAt:   d.CreatedAt,
			UpdatedAt:   d.UpdatedAt,
		}
		for _, gid := range d.GenreIDs {
			if g, ok := genres[gid]; ok {
				m.Genres = append(m.Genres, g)
			}
		}
		if d.Image != nil {
			m.Image = &domain.Image{PublicID: d.Image.PublicID, SecureURL: d.Image.SecureURL}
		}
		movies = append(movies, m)
	}
	return movies, nil
}

// populateUsers resolves each user's movies, keeping the order of the
// user's movies array.
func populateUsers(ctx context.Context, db *mongo.Database, docs []userDocument) ([]domain.User, error) {
	ids := make([]bson.ObjectID, 0)
	for _, d := range docs {
		ids = append(ids, d.Movies...)
	}

	byID := make(map[string]domain.Movie, len(ids))
	if len(ids) > 0 {
		cur, err := db.Collection(moviesCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, fmt.Errorf("load movies: %w", err)
		}
		var found []movieDocument
		if err := cur.All(ctx, &found); err != nil {
			return nil, fmt.Errorf("decode movies: %w", err)
		}
		movies, err := populateMovies(ctx, db, found)
		if err != nil {
			return nil, err
		}
		for _, m := range movies {
			byID[m.ID] = m
		}
	}

	users := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		u := domain.User{
			ID:           d.ID.Hex(),
			Name:         d.Name,
			Email:        d.Email,
			PasswordHash: d.Password,
			Movies:       make([]domain.Movie, 0, len(d.Movies)),
			CreatedAt:    d.CreatedAt,
			UpdatedAt:    d.UpdatedAt,
		}
		for _, mid := range d.Movies {
			if m, ok := byID[mid.Hex()]; ok {
				u.Movies = append(u.Movies, m)
			}
		}
		users = append(users, u)
	}
	return users, nil
}
