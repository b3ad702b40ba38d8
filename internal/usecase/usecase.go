package usecase

import (
	"context"
	"io"

	"github.com/GoArmGo/MovieCatalog/internal/domain"
)

// UserInput is a validated user payload. Password is plain text.
type UserInput struct {
	Name     string
	Email    string
	Password *string
}

// UserUpdate changes only the non-nil fields.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
}

// MovieInput is a normalised movie payload: lowercased title and genre
// names, numeric year.
type MovieInput struct {
	Title       string
	Year        int
	Description string
	Language    string
	Genres      []string
}

// MoviePatchInput changes only the non-nil fields. A nil Genres keeps the
// movie's genres.
type MoviePatchInput struct {
	Title       *string
	Year        *int
	Description *string
	Language    *string
	Genres      []string
}

// IsEmpty reports whether the patch changes nothing.
func (p MoviePatchInput) IsEmpty() bool {
	return p.Title == nil && p.Year == nil && p.Description == nil && p.Language == nil && p.Genres == nil
}

// Upload is an image file received with a movie.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// MovieQuery filters the movie listing. Genre is a genre name.
type MovieQuery struct {
	Page  int
	Title string
	Genre string
	Year  *int
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

// UserUseCase manages users and their passwords.
type UserUseCase interface {
	CreateUser(ctx context.Context, in UserInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context, page int) (Page[domain.User], error)
	UpdateUser(ctx context.Context, id string, in UserUpdate) (*domain.User, error)
	// DeleteUser removes the user with every movie they own and schedules
	// cleanup of the movies' images.
	DeleteUser(ctx context.Context, id string) error
}

// MovieUseCase manages movies, their genres and images.
type MovieUseCase interface {
	CreateMovie(ctx context.Context, userID string, in MovieInput, image *Upload) (*domain.Movie, error)
	GetMovie(ctx context.Context, id string) (*domain.Movie, error)
	ListMovies(ctx context.Context, q MovieQuery) (Page[domain.Movie], error)
	// ReplaceMovie overwrites every field. A nil image keeps the current one.
	ReplaceMovie(ctx context.Context, id string, in MovieInput, image *Upload) (*domain.Movie, error)
	PatchMovie(ctx context.Context, id string, in MoviePatchInput, image *Upload) (*domain.Movie, error)
	DeleteMovie(ctx context.Context, id string) error
}

// GenreUseCase manages genres and genre-scoped movie listings.
type GenreUseCase interface {
	CreateGenre(ctx context.Context, name string) (*domain.Genre, error)
	ListGenres(ctx context.Context) ([]domain.Genre, error)
	// GenresWithUserMovies returns every genre with the movies of userID in it.
	GenresWithUserMovies(ctx context.Context, userID string) ([]domain.GenreWithMovies, error)
	MoviesByGenreAndUser(ctx context.Context, genreName, userID string, page int) (Page[domain.Movie], error)
}
