package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/messaging/payloads"
	"github.com/GoArmGo/MovieCatalog/internal/pagination"
)

// userUseCase implements UserUseCase.
type userUseCase struct {
	users    ports.UserRepository
	cleaner  imageCleaner
	pageSize int
	hashCost int
	logger   *slog.Logger
}

func NewUserUseCase(
	store ports.Datastore,
	cleanup ports.ImageCleanupPublisher,
	pageSize int,
	logger *slog.Logger,
) UserUseCase {
	return &userUseCase{
		users:    store.Users(),
		cleaner:  imageCleaner{publisher: cleanup, logger: logger},
		pageSize: pageSize,
		hashCost: bcrypt.DefaultCost,
		logger:   logger,
	}
}

func (uc *userUseCase) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), uc.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", invalid("password must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *userUseCase) CreateUser(ctx context.Context, in UserInput) (*domain.User, error) {
	user := domain.NewUser{
		Name:  strings.TrimSpace(in.Name),
		Email: normalizeEmail(in.Email),
	}
	if in.Password != nil {
		hashed, err := uc.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = &hashed
	}

	created, err := uc.users.Create(ctx, user)
	if err != nil {
		return nil, entityError("email", err)
	}
	return created, nil
}

func (uc *userUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.users.FindByID(ctx, id)
	if err != nil {
		return nil, entityError("user", err)
	}
	return user, nil
}

func (uc *userUseCase) ListUsers(ctx context.Context, page int) (Page[domain.User], error) {
	window := pagination.NewWindow(page, uc.pageSize)
	users, total, err := uc.users.FindAll(ctx, window)
	if err != nil {
		return Page[domain.User]{}, err
	}
	return Page[domain.User]{
		Items:      users,
		Page:       window.Page,
		PageSize:   window.PageSize,
		Total:      total,
		TotalPages: pagination.TotalPages(total, window.PageSize),
	}, nil
}

func (uc *userUseCase) UpdateUser(ctx context.Context, id string, in UserUpdate) (*domain.User, error) {
	patch := domain.UserPatch{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		patch.Name = &name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		patch.Email = &email
	}
	if in.Password != nil {
		hashed, err := uc.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hashed
	}
	if patch.IsEmpty() {
		return nil, invalid("at least one of name, email or password is required")
	}

	user, err := uc.users.Update(ctx, id, patch)
	if errors.Is(err, domain.ErrConflict) {
		return nil, entityError("email", err)
	}
	if err != nil {
		return nil, entityError("user", err)
	}
	return user, nil
}

func (uc *userUseCase) DeleteUser(ctx context.Context, id string) error {
	user, err := uc.users.FindByID(ctx, id)
	if err != nil {
		return entityError("user", err)
	}

	if err := uc.users.Delete(ctx, id); err != nil {
		return entityError("user", err)
	}

	for _, movie := range user.Movies {
		uc.cleaner.schedule(ctx, movie.Image, payloads.ReasonUserDeleted)
	}
	uc.logger.Info("user deleted", "id", id, "movies", len(user.Movies))
	return nil
}
