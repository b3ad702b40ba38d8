package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/logger"
)

func TestCreateGenre(t *testing.T) {
	uc := NewGenreUseCase(newMemStore(), 4, logger.Discard())
	ctx := context.Background()

	genre, err := uc.CreateGenre(ctx, "  Drama ")
	if err != nil {
		t.Fatalf("CreateGenre: %v", err)
	}
	if genre.Name != "drama" {
		t.Fatalf("name = %q, want drama", genre.Name)
	}

	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{name: "duplicate", input: "DRAMA", wantErr: domain.ErrConflict, wantMsg: "genre already exists"},
		{name: "blank", input: "   ", wantErr: domain.ErrValidation, wantMsg: "validation failed: name is required"},
		{
			name:    "too long",
			input:   strings.Repeat("a", domain.MaxGenreNameLength+1),
			wantErr: domain.ErrValidation,
			wantMsg: "validation failed: genre names must be at most 100 characters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateGenre(ctx, tt.input)
			if !errors.Is(err, tt.wantErr) || err.Error() != tt.wantMsg {
				t.Fatalf("CreateGenre(%q) error = %v", tt.input, err)
			}
		})
	}
}

func TestListGenresSortedByName(t *testing.T) {
	uc := NewGenreUseCase(newMemStore(), 4, logger.Discard())
	ctx := context.Background()
	for _, name := range []string{"war", "action", "horror"} {
		if _, err := uc.CreateGenre(ctx, name); err != nil {
			t.Fatalf("CreateGenre: %v", err)
		}
	}

	genres, err := uc.ListGenres(ctx)
	if err != nil {
		t.Fatalf("ListGenres: %v", err)
	}
	if len(genres) != 3 || genres[0].Name != "action" || genres[2].Name != "war" {
		t.Fatalf("genres = %+v", genres)
	}
}

func TestGenresWithUserMovies(t *testing.T) {
	env := newMovieEnv(t)
	ctx := context.Background()
	genresUC := NewGenreUseCase(env.store, 4, logger.Discard())

	other, _ := env.store.Users().Create(ctx, domain.NewUser{Name: "Other", Email: "other@example.com"})
	if _, err := genresUC.CreateGenre(ctx, "western"); err != nil {
		t.Fatalf("CreateGenre: %v", err)
	}
	if _, err := env.movies.CreateMovie(ctx, env.userID, sampleMovie("alien"), nil); err != nil {
		t.Fatalf("CreateMovie: %v", err)
	}
	in := sampleMovie("heat")
	in.Genres = []string{"action"}
	if _, err := env.movies.CreateMovie(ctx, env.userID, in, nil); err != nil {
		t.Fatalf("CreateMovie: %v", err)
	}
	if _, err := env.movies.CreateMovie(ctx, other.ID, sampleMovie("not mine"), nil); err != nil {
		t.Fatalf("CreateMovie: %v", err)
	}

	got, err := genresUC.GenresWithUserMovies(ctx, env.userID)
	if err != nil {
		t.Fatalf("GenresWithUserMovies: %v", err)
	}

	counts := map[string]int{}
	for _, g := range got {
		if g.Movies == nil {
			t.Fatalf("genre %s has a nil movie list", g.Name)
		}
		counts[g.Name] = len(g.Movies)
	}
	want := map[string]int{"action": 2, "sci-fi": 1, "western": 0}
	for name, n := range want {
		if counts[name] != n {
			t.Fatalf("genre %s has %d movies, want %d (all: %v)", name, counts[name], n, counts)
		}
	}

	if _, err := genresUC.GenresWithUserMovies(ctx, "user-404"); !errors.Is(err, domain.ErrNotFound) || err.Error() != "user not found" {
		t.Fatalf("unknown user error = %v", err)
	}
}

func TestMoviesByGenreAndUser(t *testing.T) {
	env := newMovieEnv(t)
	ctx := context.Background()
	genresUC := NewGenreUseCase(env.store, 4, logger.Discard())

	for _, title := range []string{"a", "b", "c", "d", "e"} {
		if _, err := env.movies.CreateMovie(ctx, env.userID, sampleMovie(title), nil); err != nil {
			t.Fatalf("CreateMovie: %v", err)
		}
	}

	page, err := genresUC.MoviesByGenreAndUser(ctx, "Action", env.userID, 2)
	if err != nil {
		t.Fatalf("MoviesByGenreAndUser: %v", err)
	}
	if page.Page != 2 || len(page.Items) != 1 || page.Total != 5 || page.TotalPages != 2 {
		t.Fatalf("page = %+v", page)
	}

	empty, err := genresUC.MoviesByGenreAndUser(ctx, "action", "user-404", 1)
	if err != nil {
		t.Fatalf("MoviesByGenreAndUser unknown user: %v", err)
	}
	if empty.Total != 0 {
		t.Fatalf("expected no movies, got %d", empty.Total)
	}

	if _, err := genresUC.MoviesByGenreAndUser(ctx, "western", env.userID, 1); !errors.Is(err, domain.ErrNotFound) || err.Error() != "genre not found" {
		t.Fatalf("unknown genre error = %v", err)
	}
}
