package usecase

import (
	"context"
	"log/slog"

	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/pagination"
)

// genreUseCase implements GenreUseCase.
type genreUseCase struct {
	users    ports.UserRepository
	movies   ports.MovieRepository
	genres   ports.GenreRepository
	pageSize int
	logger   *slog.Logger
}

func NewGenreUseCase(store ports.Datastore, pageSize int, logger *slog.Logger) GenreUseCase {
	return &genreUseCase{
		users:    store.Users(),
		movies:   store.Movies(),
		genres:   store.Genres(),
		pageSize: pageSize,
		logger:   logger,
	}
}

func (uc *genreUseCase) CreateGenre(ctx context.Context, name string) (*domain.Genre, error) {
	name = normalizeGenre(name)
	if name == "" {
		return nil, invalid("name is required")
	}
	if err := checkGenreName(name); err != nil {
		return nil, err
	}

	genre, err := uc.genres.Create(ctx, name)
	if err != nil {
		return nil, entityError("genre", err)
	}
	return genre, nil
}

func (uc *genreUseCase) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	genres, _, err := uc.genres.FindAll(ctx, pagination.All())
	if err != nil {
		return nil, err
	}
	return genres, nil
}

func (uc *genreUseCase) GenresWithUserMovies(ctx context.Context, userID string) ([]domain.GenreWithMovies, error) {
	if _, err := uc.users.FindByID(ctx, userID); err != nil {
		return nil, entityError("user", err)
	}

	genres, _, err := uc.genres.FindAll(ctx, pagination.All())
	if err != nil {
		return nil, err
	}
	movies, _, err := uc.movies.FindAll(ctx, domain.MovieFilter{UserID: userID}, pagination.All())
	if err != nil {
		return nil, err
	}

	byGenre := make(map[string][]domain.Movie, len(genres))
	for _, m := range movies {
		for _, g := range m.Genres {
			byGenre[g.ID] = append(byGenre[g.ID], m)
		}
	}

	out := make([]domain.GenreWithMovies, 0, len(genres))
	for _, g := range genres {
		list := byGenre[g.ID]
		if list == nil {
			list = []domain.Movie{}
		}
		out = append(out, domain.GenreWithMovies{Genre: g, Movies: list})
	}
	return out, nil
}

func (uc *genreUseCase) MoviesByGenreAndUser(ctx context.Context, genreName, userID string, page int) (Page[domain.Movie], error) {
	genre, err := uc.genres.FindByName(ctx, normalizeGenre(genreName))
	if err != nil {
		return Page[domain.Movie]{}, entityError("genre", err)
	}

	window := pagination.NewWindow(page, uc.pageSize)
	movies, total, err := uc.movies.FindAll(ctx, domain.MovieFilter{GenreID: genre.ID, UserID: userID}, window)
	if err != nil {
		return Page[domain.Movie]{}, err
	}
	return Page[domain.Movie]{
		Items:      movies,
		Page:       window.Page,
		PageSize:   window.PageSize,
		Total:      total,
		TotalPages: pagination.TotalPages(total, window.PageSize),
	}, nil
}
