package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/pagination"
)

// GenreStorage implements ports.GenreRepository. Writes go through GORM,
// the listing is a plain sqlx query.
type GenreStorage struct {
	orm    *gorm.DB
	db     *sqlx.DB
	logger *slog.Logger
}

var _ ports.GenreRepository = (*GenreStorage)(nil)

func NewGenreStorage(orm *gorm.DB, db *sqlx.DB, logger *slog.Logger) *GenreStorage {
	return &GenreStorage{orm: orm, db: db, logger: logger}
}

type genreRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

func (s *GenreStorage) Create(ctx context.Context, name string) (*domain.Genre, error) {
	model := genreModel{ID: uuid.New(), Name: name}
	if err := s.orm.WithContext(ctx).Create(&model).Error; err != nil {
		err = translateError(err)
		s.logger.Warn("failed to create genre", "name", name, "error", err)
		return nil, fmt.Errorf("create genre %q: %w", name, err)
	}

	s.logger.Info("genre created", "id", model.ID, "name", name)
	genre := model.toDomain()
	return &genre, nil
}

func (s *GenreStorage) FindByID(ctx context.Context, id string) (*domain.Genre, error) {
	gid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var model genreModel
	if err := s.orm.WithContext(ctx).First(&model, "id = ?", gid).Error; err != nil {
		return nil, fmt.Errorf("find genre %s: %w", id, translateError(err))
	}
	genre := model.toDomain()
	return &genre, nil
}

func (s *GenreStorage) FindByName(ctx context.Context, name string) (*domain.Genre, error) {
	var model genreModel
	if err := s.orm.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		return nil, fmt.Errorf("find genre %q: %w", name, translateError(err))
	}
	genre := model.toDomain()
	return &genre, nil
}

// FindOrCreate inserts the genre unless the name is taken, then reads it
// back. Concurrent callers converge on the same row.
func (s *GenreStorage) FindOrCreate(ctx context.Context, name string) (*domain.Genre, error) {
	model := genreModel{ID: uuid.New(), Name: name}
	err := s.orm.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&model).Error
	if err != nil {
		s.logger.Error("failed to upsert genre", "name", name, "error", err)
		return nil, fmt.Errorf("upsert genre %q: %w", name, translateError(err))
	}
	return s.FindByName(ctx, name)
}

func (s *GenreStorage) FindAll(ctx context.Context, window pagination.Window) ([]domain.Genre, int64, error) {
	start := time.Now()

	var total int64
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM genres`); err != nil {
		return nil, 0, fmt.Errorf("count genres: %w", err)
	}

	var (
		rows []genreRow
		err  error
	)
	if window.Paged() {
		err = s.db.SelectContext(ctx, &rows,
			`SELECT id, name FROM genres ORDER BY name ASC LIMIT $1 OFFSET $2`,
			window.Take, window.Skip)
	} else {
		err = s.db.SelectContext(ctx, &rows, `SELECT id, name FROM genres ORDER BY name ASC`)
	}
	if err != nil {
		s.logger.Error("failed to list genres", "error", err)
		return nil, 0, fmt.Errorf("list genres: %w", err)
	}

	genres := make([]domain.Genre, 0, len(rows))
	for _, r := range rows {
		genres = append(genres, domain.Genre{ID: r.ID, Name: r.Name})
	}

	s.logger.Debug("genres listed",
		"found", len(genres),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return genres, total, nil
}

func (s *GenreStorage) Update(ctx context.Context, id string, name string) (*domain.Genre, error) {
	gid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	res := s.orm.WithContext(ctx).Model(&genreModel{}).Where("id = ?", gid).
		Updates(map[string]any{"name": name, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, fmt.Errorf("update genre %s: %w", id, translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update genre %s: %w", id, domain.ErrNotFound)
	}
	return &domain.Genre{ID: gid.String(), Name: name}, nil
}

// Delete removes the genre; movie_genres cascades on genre_id.
func (s *GenreStorage) Delete(ctx context.Context, id string) error {
	gid, err := parseID(id)
	if err != nil {
		return err
	}

	res := s.orm.WithContext(ctx).Delete(&genreModel{}, "id = ?", gid)
	if res.Error != nil {
		return fmt.Errorf("delete genre %s: %w", id, translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete genre %s: %w", id, domain.ErrNotFound)
	}

	s.logger.Info("genre deleted", "id", id)
	return nil
}
