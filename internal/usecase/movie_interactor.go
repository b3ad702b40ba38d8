package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/messaging/payloads"
	"github.com/GoArmGo/MovieCatalog/internal/pagination"
)

// movieUseCase implements MovieUseCase.
type movieUseCase struct {
	users    ports.UserRepository
	movies   ports.MovieRepository
	genres   ports.GenreRepository
	files    ports.FileStorage
	cleaner  imageCleaner
	pageSize int
	logger   *slog.Logger
}

func NewMovieUseCase(
	store ports.Datastore,
	files ports.FileStorage,
	cleanup ports.ImageCleanupPublisher,
	pageSize int,
	logger *slog.Logger,
) MovieUseCase {
	return &movieUseCase{
		users:    store.Users(),
		movies:   store.Movies(),
		genres:   store.Genres(),
		files:    files,
		cleaner:  imageCleaner{publisher: cleanup, logger: logger},
		pageSize: pageSize,
		logger:   logger,
	}
}

// resolveGenres finds or creates a genre per name and returns their ids.
func (uc *movieUseCase) resolveGenres(ctx context.Context, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		name := normalizeGenre(raw)
		if name == "" {
			continue
		}
		if err := checkGenreName(name); err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		genre, err := uc.genres.FindOrCreate(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("resolve genre %q: %w", name, err)
		}
		ids = append(ids, genre.ID)
	}
	if len(ids) == 0 {
		return nil, invalid("at least one genre is required")
	}
	return ids, nil
}

func normalizeGenre(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func checkGenreName(name string) error {
	if utf8.RuneCountInString(name) > domain.MaxGenreNameLength {
		return invalid("genre names must be at most %d characters", domain.MaxGenreNameLength)
	}
	return nil
}

func checkYear(year int) error {
	if year < domain.MinYear || year > domain.MaxYear {
		return invalid("year must be between %d and %d", domain.MinYear, domain.MaxYear)
	}
	return nil
}

func (uc *movieUseCase) CreateMovie(ctx context.Context, userID string, in MovieInput, image *Upload) (*domain.Movie, error) {
	if err := checkYear(in.Year); err != nil {
		return nil, err
	}
	if _, err := uc.users.FindByID(ctx, userID); err != nil {
		return nil, entityError("user", err)
	}

	genreIDs, err := uc.resolveGenres(ctx, in.Genres)
	if err != nil {
		return nil, err
	}

	img, err := upload(ctx, uc.files, image)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	movie, err := uc.movies.Create(ctx, domain.NewMovie{
		Title:       strings.ToLower(in.Title),
		Year:        in.Year,
		Description: in.Description,
		Language:    in.Language,
		GenreIDs:    genreIDs,
		Image:       img,
		UserID:      userID,
	})
	if err != nil {
		uc.cleaner.schedule(ctx, img, payloads.ReasonPersistFailure)
		return nil, uc.createFailure(ctx, userID, err)
	}

	uc.logger.Info("movie created", "id", movie.ID, "user_id", userID, "with_image", img != nil)
	return movie, nil
}

// createFailure names the missing reference when an insert hits a
// foreign key: the owner if it is gone, one of the genres otherwise.
func (uc *movieUseCase) createFailure(ctx context.Context, userID string, err error) error {
	if !errors.Is(err, domain.ErrNotFound) {
		return entityError("movie", err)
	}
	if _, userErr := uc.users.FindByID(ctx, userID); errors.Is(userErr, domain.ErrNotFound) {
		return entityError("user", err)
	}
	return entityError("genre", err)
}

func (uc *movieUseCase) GetMovie(ctx context.Context, id string) (*domain.Movie, error) {
	movie, err := uc.movies.FindByID(ctx, id)
	if err != nil {
		return nil, entityError("movie", err)
	}
	return movie, nil
}

func (uc *movieUseCase) ListMovies(ctx context.Context, q MovieQuery) (Page[domain.Movie], error) {
	window := pagination.NewWindow(q.Page, uc.pageSize)
	result := Page[domain.Movie]{Items: []domain.Movie{}, Page: window.Page, PageSize: window.PageSize}

	filter := domain.MovieFilter{Title: strings.TrimSpace(q.Title), Year: q.Year}
	if name := normalizeGenre(q.Genre); name != "" {
		genre, err := uc.genres.FindByName(ctx, name)
		if errors.Is(err, domain.ErrNotFound) {
			return result, nil
		}
		if err != nil {
			return Page[domain.Movie]{}, err
		}
		filter.GenreID = genre.ID
	}

	movies, total, err := uc.movies.FindAll(ctx, filter, window)
	if err != nil {
		return Page[domain.Movie]{}, err
	}
	result.Items = movies
	result.Total = total
	result.TotalPages = pagination.TotalPages(total, window.PageSize)
	return result, nil
}

func (uc *movieUseCase) ReplaceMovie(ctx context.Context, id string, in MovieInput, image *Upload) (*domain.Movie, error) {
	title := strings.ToLower(in.Title)
	return uc.update(ctx, id, MoviePatchInput{
		Title:       &title,
		Year:        &in.Year,
		Description: &in.Description,
		Language:    &in.Language,
		Genres:      in.Genres,
	}, image, true)
}

func (uc *movieUseCase) PatchMovie(ctx context.Context, id string, in MoviePatchInput, image *Upload) (*domain.Movie, error) {
	if in.IsEmpty() && image == nil {
		return nil, invalid("at least one field or an image is required")
	}
	if in.Title != nil {
		title := strings.ToLower(*in.Title)
		in.Title = &title
	}
	return uc.update(ctx, id, in, image, in.Genres != nil)
}

func (uc *movieUseCase) update(ctx context.Context, id string, in MoviePatchInput, image *Upload, withGenres bool) (*domain.Movie, error) {
	if in.Year != nil {
		if err := checkYear(*in.Year); err != nil {
			return nil, err
		}
	}

	current, err := uc.movies.FindByID(ctx, id)
	if err != nil {
		return nil, entityError("movie", err)
	}

	patch := domain.MoviePatch{
		Title:       in.Title,
		Year:        in.Year,
		Description: in.Description,
		Language:    in.Language,
	}
	if withGenres {
		if patch.GenreIDs, err = uc.resolveGenres(ctx, in.Genres); err != nil {
			return nil, err
		}
	}

	if patch.Image, err = upload(ctx, uc.files, image); err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	movie, err := uc.movies.Update(ctx, id, patch)
	if err != nil {
		uc.cleaner.schedule(ctx, patch.Image, payloads.ReasonPersistFailure)
		return nil, entityError("movie", err)
	}

	if patch.Image != nil {
		uc.cleaner.schedule(ctx, current.Image, payloads.ReasonImageReplaced)
	}
	uc.logger.Info("movie updated", "id", id, "image_replaced", patch.Image != nil)
	return movie, nil
}

func (uc *movieUseCase) DeleteMovie(ctx context.Context, id string) error {
	deleted, err := uc.movies.Delete(ctx, id)
	if err != nil {
		return entityError("movie", err)
	}
	uc.cleaner.schedule(ctx, deleted.Image, payloads.ReasonMovieDeleted)
	return nil
}
