package handler

import (
	"context"
	"io"

	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/usecase"
)

type fakeUsers struct {
	created  *usecase.UserInput
	updated  *usecase.UserUpdate
	page     usecase.Page[domain.User]
	err      error
	lastID   string
	lastPage int
}

func (f *fakeUsers) CreateUser(_ context.Context, in usecase.UserInput) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &in
	return &domain.User{ID: "u1", Name: in.Name, Email: in.Email, Movies: []domain.Movie{}}, nil
}

func (f *fakeUsers) GetUser(_ context.Context, id string) (*domain.User, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: id, Name: "Ada", Email: "ada@example.com", Movies: []domain.Movie{}}, nil
}

func (f *fakeUsers) ListUsers(_ context.Context, page int) (usecase.Page[domain.User], error) {
	f.lastPage = page
	return f.page, f.err
}

func (f *fakeUsers) UpdateUser(_ context.Context, id string, in usecase.UserUpdate) (*domain.User, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	f.updated = &in
	return &domain.User{ID: id}, nil
}

func (f *fakeUsers) DeleteUser(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

type fakeMovies struct {
	input      *usecase.MovieInput
	patch      *usecase.MoviePatchInput
	query      *usecase.MovieQuery
	imageName  string
	imageBytes []byte
	page       usecase.Page[domain.Movie]
	err        error
	lastID     string
}

func (f *fakeMovies) record(image *usecase.Upload) {
	if image == nil {
		return
	}
	f.imageName = image.Filename
	f.imageBytes, _ = io.ReadAll(image.Body)
}

func (f *fakeMovies) CreateMovie(_ context.Context, userID string, in usecase.MovieInput, image *usecase.Upload) (*domain.Movie, error) {
	f.lastID = userID
	if f.err != nil {
		return nil, f.err
	}
	f.input = &in
	f.record(image)
	return &domain.Movie{ID: "m1", Title: in.Title, Year: in.Year, UserID: userID}, nil
}

func (f *fakeMovies) GetMovie(_ context.Context, id string) (*domain.Movie, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Movie{ID: id, Title: "alien", Year: 1979}, nil
}

func (f *fakeMovies) ListMovies(_ context.Context, q usecase.MovieQuery) (usecase.Page[domain.Movie], error) {
	f.query = &q
	return f.page, f.err
}

func (f *fakeMovies) ReplaceMovie(_ context.Context, id string, in usecase.MovieInput, image *usecase.Upload) (*domain.Movie, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	f.input = &in
	f.record(image)
	return &domain.Movie{ID: id, Title: in.Title}, nil
}

func (f *fakeMovies) PatchMovie(_ context.Context, id string, in usecase.MoviePatchInput, image *usecase.Upload) (*domain.Movie, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	f.patch = &in
	f.record(image)
	return &domain.Movie{ID: id}, nil
}

func (f *fakeMovies) DeleteMovie(_ context.Context, id string) error {
	f.lastID = id
	return f.err
}

type fakeGenres struct {
	created   string
	genreName string
	userID    string
	page      usecase.Page[domain.Movie]
	err       error
}

func (f *fakeGenres) CreateGenre(_ context.Context, name string) (*domain.Genre, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = name
	return &domain.Genre{ID: "g1", Name: name}, nil
}

func (f *fakeGenres) ListGenres(context.Context) ([]domain.Genre, error) {
	return nil, f.err
}

func (f *fakeGenres) GenresWithUserMovies(_ context.Context, userID string) ([]domain.GenreWithMovies, error) {
	f.userID = userID
	if f.err != nil {
		return nil, f.err
	}
	return []domain.GenreWithMovies{{Genre: domain.Genre{ID: "g1", Name: "drama"}, Movies: []domain.Movie{}}}, nil
}

func (f *fakeGenres) MoviesByGenreAndUser(_ context.Context, genreName, userID string, _ int) (usecase.Page[domain.Movie], error) {
	f.genreName = genreName
	f.userID = userID
	return f.page, f.err
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }
