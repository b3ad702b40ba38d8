package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/pagination"
)

// UserStorage implements ports.UserRepository with GORM.
type UserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ ports.UserRepository = (*UserStorage)(nil)

func NewUserStorage(db *gorm.DB, logger *slog.Logger) *UserStorage {
	return &UserStorage{db: db, logger: logger}
}

// withMovies preloads a user's movies in creation order, with their genres and image.
func withMovies(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Movies", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("movies.created_at ASC, movies.id ASC")
		}).
		Preload("Movies.Genres", orderGenres).
		Preload("Movies.Image")
}

func (s *UserStorage) Create(ctx context.Context, user domain.NewUser) (*domain.User, error) {
	start := time.Now()

	model := userModel{
		ID:       uuid.New(),
		Name:     user.Name,
		Email:    user.Email,
		Password: user.PasswordHash,
	}
	if err := s.db.WithContext(ctx).Omit("Movies").Create(&model).Error; err != nil {
		err = translateError(err)
		s.logger.Error("failed to create user", "email", user.Email, "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created",
		"id", model.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	created := model.toDomain()
	return &created, nil
}

func (s *UserStorage) FindByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var model userModel
	if err := withMovies(s.db.WithContext(ctx)).First(&model, "id = ?", uid).Error; err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, translateError(err))
	}
	user := model.toDomain()
	return &user, nil
}

func (s *UserStorage) FindAll(ctx context.Context, window pagination.Window) ([]domain.User, int64, error) {
	start := time.Now()

	var total int64
	if err := s.db.WithContext(ctx).Model(&userModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	q := withMovies(s.db.WithContext(ctx)).Order("created_at ASC, id ASC")
	if window.Paged() {
		q = q.Offset(window.Skip).Limit(window.Take)
	}

	var models []userModel
	if err := q.Find(&models).Error; err != nil {
		s.logger.Error("failed to list users", "page", window.Page, "error", err)
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	users := make([]domain.User, 0, len(models))
	for _, m := range models {
		users = append(users, m.toDomain())
	}

	s.logger.Debug("users listed",
		"found", len(users),
		"total", total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, total, nil
}

func (s *UserStorage) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_at": time.Now()}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.PasswordHash != nil {
		updates["password"] = *patch.PasswordHash
	}

	res := s.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", uid).Updates(updates)
	if res.Error != nil {
		err := translateError(res.Error)
		s.logger.Error("failed to update user", "id", id, "error", err)
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("update user %s: %w", id, domain.ErrNotFound)
	}

	s.logger.Info("user updated", "id", id)
	return s.FindByID(ctx, id)
}

// Delete removes the user; the movies table cascades on user_id.
func (s *UserStorage) Delete(ctx context.Context, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Delete(&userModel{}, "id = ?", uid)
	if res.Error != nil {
		s.logger.Error("failed to delete user", "id", id, "error", res.Error)
		return fmt.Errorf("delete user %s: %w", id, translateError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete user %s: %w", id, domain.ErrNotFound)
	}

	s.logger.Info("user deleted", "id", id)
	return nil
}
