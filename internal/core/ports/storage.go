package ports

import (
	"context"
	"io"

	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/pagination"
)

// UserRepository persists users. Reads populate the user's movies.
type UserRepository interface {
	Create(ctx context.Context, user domain.NewUser) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindAll(ctx context.Context, window pagination.Window) ([]domain.User, int64, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	// Delete removes the user and every movie the user owns.
	Delete(ctx context.Context, id string) error
}

// MovieRepository persists movies. Reads populate genres and image.
type MovieRepository interface {
	Create(ctx context.Context, movie domain.NewMovie) (*domain.Movie, error)
	FindByID(ctx context.Context, id string) (*domain.Movie, error)
	FindAll(ctx context.Context, filter domain.MovieFilter, window pagination.Window) ([]domain.Movie, int64, error)
	Update(ctx context.Context, id string, patch domain.MoviePatch) (*domain.Movie, error)
	// Delete removes the movie and returns what was stored.
	Delete(ctx context.Context, id string) (*domain.Movie, error)
}

// GenreRepository persists genres.
type GenreRepository interface {
	Create(ctx context.Context, name string) (*domain.Genre, error)
	FindByID(ctx context.Context, id string) (*domain.Genre, error)
	FindByName(ctx context.Context, name string) (*domain.Genre, error)
	// FindOrCreate returns the genre with the given name, creating it when absent.
	FindOrCreate(ctx context.Context, name string) (*domain.Genre, error)
	FindAll(ctx context.Context, window pagination.Window) ([]domain.Genre, int64, error)
	Update(ctx context.Context, id string, name string) (*domain.Genre, error)
	Delete(ctx context.Context, id string) error
}

// Datastore is the single handle the application holds on the selected backend.
type Datastore interface {
	Users() UserRepository
	Movies() MovieRepository
	Genres() GenreRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// FileStorage stores binary objects on the media host.
type FileStorage interface {
	// UploadFile stores the content under key and returns its public reference.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (*domain.Image, error)
	DeleteFile(ctx context.Context, key string) error
}
