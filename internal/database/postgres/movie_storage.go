package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/pagination"
)

// MovieStorage implements ports.MovieRepository with GORM. Genre links and
// the image row are written explicitly so that associations never upsert
// genre rows.
type MovieStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ ports.MovieRepository = (*MovieStorage)(nil)

func NewMovieStorage(db *gorm.DB, logger *slog.Logger) *MovieStorage {
	return &MovieStorage{db: db, logger: logger}
}

func orderGenres(tx *gorm.DB) *gorm.DB {
	return tx.Order("genres.name ASC")
}

func withGenresAndImage(db *gorm.DB) *gorm.DB {
	return db.Preload("Genres", orderGenres).Preload("Image")
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

	model := movieModel{
		ID:          uuid.New(),
		Title:       movie.Title,
		Year:        movie.Year,
		Description: movie.Description,
		Language:    movie.Language,
		UserID:      userID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&model).Error; err != nil {
			return err
		}
		if err := linkGenres(tx, model.ID, genreIDs); err != nil {
			return err
		}
		if movie.Image != nil {
			return attachImage(tx, model.ID, *movie.Image)
		}
		return nil
	})
	if err != nil {
		err = translateError(err)
		s.logger.Error("failed to create movie", "user_id", movie.UserID, "error", err)
		return nil, fmt.Errorf("create movie: %w", err)
	}

	s.logger.Info("movie created",
		"id", model.ID,
		"user_id", movie.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s.FindByID(ctx, model.ID.String())
}

func linkGenres(tx *gorm.DB, movieID uuid.UUID, genreIDs []uuid.UUID) error {
	if len(genreIDs) == 0 {
		return nil
	}
	links := make([]movieGenreModel, 0, len(genreIDs))
	for _, gid := range genreIDs {
		links = append(links, movieGenreModel{MovieID: movieID, GenreID: gid})
	}
	return tx.Create(&links).Error
}

func attachImage(tx *gorm.DB, movieID uuid.UUID, img domain.Image) error {
	return tx.Create(&imageModel{
		ID:        uuid.New(),
		MovieID:   movieID,
		PublicID:  img.PublicID,
		SecureURL: img.SecureURL,
	}).Error
}

func (s *MovieStorage) FindByID(ctx context.Context, id string) (*domain.Movie, error) {
	mid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var model movieModel
	if err := withGenresAndImage(s.db.WithContext(ctx)).First(&model, "id = ?", mid).Error; err != nil {
		return nil, fmt.Errorf("find movie %s: %w", id, translateError(err))
	}
	movie := model.toDomain()
	return &movie, nil
}

func (s *MovieStorage) FindAll(ctx context.Context, filter domain.MovieFilter, window pagination.Window) ([]domain.Movie, int64, error) {
	start := time.Now()

	base := func() (*gorm.DB, bool) {
		q := s.db.WithContext(ctx).Model(&movieModel{})
		if filter.UserID != "" {
			uid, err := parseID(filter.UserID)
			if err != nil {
				return nil, false
			}
			q = q.Where("movies.user_id = ?", uid)
		}
		if filter.GenreID != "" {
			gid, err := parseID(filter.GenreID)
			if err != nil {
				return nil, false
			}
			q = q.Where("EXISTS (SELECT 1 FROM movie_genres mg WHERE mg.movie_id = movies.id AND mg.genre_id = ?)", gid)
		}
		if title := strings.TrimSpace(filter.Title); title != "" {
			q = q.Where("LOWER(movies.title) LIKE LOWER(?)", likePattern(title))
		}
		if filter.Year != nil {
			q = q.Where("movies.year = ?", *filter.Year)
		}
		return q, true
	}

	countQ, ok := base()
	if !ok {
		// An identifier that cannot exist matches nothing.
		return []domain.Movie{}, 0, nil
	}

	var total int64
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	findQ, _ := base()
	findQ = withGenresAndImage(findQ).Order("movies.created_at ASC, movies.id ASC")
	if window.Paged() {
		findQ = findQ.Offset(window.Skip).Limit(window.Take)
	}

	var models []movieModel
	if err := findQ.Find(&models).Error; err != nil {
		s.logger.Error("failed to list movies", "page", window.Page, "error", err)
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}

	movies := make([]domain.Movie, 0, len(models))
	for _, m := range models {
		movies = append(movies, m.toDomain())
	}

	s.logger.Debug("movies listed",
		"found", len(movies),
		"total", total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return movies, total, nil
}

func (s *MovieStorage) Update(ctx context.Context, id string, patch domain.MoviePatch) (*domain.Movie, error) {
	mid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var genreIDs []uuid.UUID
	if patch.GenreIDs != nil {
		if genreIDs, err = parseIDs(patch.GenreIDs); err != nil {
			return nil, fmt.Errorf("update movie %s: genre: %w", id, err)
		}
	}

	updates := map[string]any{"updated_at": time.Now()}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Year != nil {
		updates["year"] = *patch.Year
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Language != nil {
		updates["language"] = *patch.Language
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&movieModel{}).Where("id = ?", mid).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		if patch.GenreIDs != nil {
			if err := tx.Where("movie_id = ?", mid).Delete(&movieGenreModel{}).Error; err != nil {
				return err
			}
			if err := linkGenres(tx, mid, genreIDs); err != nil {
				return err
			}
		}
		if patch.Image != nil {
			if err := tx.Where("movie_id = ?", mid).Delete(&imageModel{}).Error; err != nil {
				return err
			}
			if err := attachImage(tx, mid, *patch.Image); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = translateError(err)
		s.logger.Error("failed to update movie", "id", id, "error", err)
		return nil, fmt.Errorf("update movie %s: %w", id, err)
	}

	s.logger.Info("movie updated", "id", id)
	return s.FindByID(ctx, id)
}

func (s *MovieStorage) Delete(ctx context.Context, id string) (*domain.Movie, error) {
	movie, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Delete(&movieModel{}, "id = ?", movie.ID)
	if res.Error != nil {
		s.logger.Error("failed to delete movie", "id", id, "error", res.Error)
		return nil, fmt.Errorf("delete movie %s: %w", id, translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("delete movie %s: %w", id, domain.ErrNotFound)
	}

	s.logger.Info("movie deleted", "id", id)
	return movie, nil
}
