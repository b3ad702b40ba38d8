// Package repotest is the behavioural contract every datastore backend
// must satisfy. Backend packages run it from their own tests.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/pagination"
)

// Harness hands the suite a live datastore. Reset empties it before each case.
type Harness struct {
	Store ports.Datastore
	Reset func(t *testing.T)
}

// Run executes the contract against h.
func Run(t *testing.T, h Harness) {
	tests := []struct {
		name string
		fn   func(t *testing.T, ctx context.Context, store ports.Datastore)
	}{
		{"UserCreateFindRoundTrip", testUserCreateFind},
		{"UserDuplicateEmailConflict", testUserDuplicateEmail},
		{"UserUpdate", testUserUpdate},
		{"UnknownIDsAreNotFound", testUnknownIDs},
		{"UserListPagination", testUserPagination},
		{"UserMoviesKeepCreationOrder", testUserMoviesOrder},
		{"UserDeleteCascadesMovies", testUserDeleteCascade},
		{"MovieCreateFindRoundTrip", testMovieCreateFind},
		{"MovieCreateUnknownOwner", testMovieUnknownOwner},
		{"MovieCreateUnknownGenre", testMovieUnknownGenre},
		{"MovieListPagination", testMoviePagination},
		{"MovieListFilters", testMovieFilters},
		{"MovieUpdatePartial", testMovieUpdate},
		{"MovieDeleteUnlinksOwner", testMovieDelete},
		{"GenreCreateDuplicateConflict", testGenreDuplicate},
		{"GenreFindOrCreateNoDuplicates", testGenreFindOrCreate},
		{"GenreUpdateAndList", testGenreUpdateList},
		{"GenreDeleteUnlinksMovies", testGenreDelete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.Reset(t)
			tt.fn(t, context.Background(), h.Store)
		})
	}
}

func mustUser(t *testing.T, ctx context.Context, store ports.Datastore, email string) *domain.User {
	t.Helper()
	hash := "$2a$10$hash"
	user, err := store.Users().Create(ctx, domain.NewUser{Name: "Tester", Email: email, PasswordHash: &hash})
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func mustGenre(t *testing.T, ctx context.Context, store ports.Datastore, name string) *domain.Genre {
	t.Helper()
	genre, err := store.Genres().FindOrCreate(ctx, name)
	if err != nil {
		t.Fatalf("find or create genre %s: %v", name, err)
	}
	return genre
}

func mustMovie(t *testing.T, ctx context.Context, store ports.Datastore, userID, title string, year int, genreIDs ...string) *domain.Movie {
	t.Helper()
	movie, err := store.Movies().Create(ctx, domain.NewMovie{
		Title:       title,
		Year:        year,
		Description: "description of " + title,
		Language:    "english",
		GenreIDs:    genreIDs,
		UserID:      userID,
	})
	if err != nil {
		t.Fatalf("create movie %s: %v", title, err)
	}
	return movie
}

func genreNames(genres []domain.Genre) []string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	sort.Strings(names)
	return names
}

func movieIDs(movies []domain.Movie) []string {
	ids := make([]string, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func testUserCreateFind(t *testing.T, ctx context.Context, store ports.Datastore) {
	created := mustUser(t, ctx, store, "ada@example.com")
	if created.ID == "" {
		t.Fatalf("expected generated id")
	}

	got, err := store.Users().FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if got.Name != "Tester" || got.Email != "ada@example.com" {
		t.Fatalf("unexpected user %+v", got)
	}
	if got.PasswordHash == nil || *got.PasswordHash != "$2a$10$hash" {
		t.Fatalf("password hash not persisted")
	}
	if len(got.Movies) != 0 {
		t.Fatalf("expected no movies, got %d", len(got.Movies))
	}

	padded, err := store.Users().FindByID(ctx, " "+created.ID+" ")
	if err != nil || padded.ID != created.ID {
		t.Fatalf("padded id must resolve to the same user: %+v, %v", padded, err)
	}
}

func testUserDuplicateEmail(t *testing.T, ctx context.Context, store ports.Datastore) {
	mustUser(t, ctx, store, "dup@example.com")

	_, err := store.Users().Create(ctx, domain.NewUser{Name: "Other", Email: "dup@example.com"})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	_, total, err := store.Users().FindAll(ctx, pagination.All())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 user, got %d", total)
	}
}

func testUserUpdate(t *testing.T, ctx context.Context, store ports.Datastore) {
	user := mustUser(t, ctx, store, "first@example.com")
	mustUser(t, ctx, store, "taken@example.com")

	name := "Renamed"
	updated, err := store.Users().Update(ctx, user.ID, domain.UserPatch{Name: &name})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.Name != "Renamed" || updated.Email != "first@example.com" {
		t.Fatalf("unexpected user after update %+v", updated)
	}

	taken := "taken@example.com"
	if _, err := store.Users().Update(ctx, user.ID, domain.UserPatch{Email: &taken}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict on email update, got %v", err)
	}
}

func testUnknownIDs(t *testing.T, ctx context.Context, store ports.Datastore) {
	user := mustUser(t, ctx, store, "gone@example.com")
	genre := mustGenre(t, ctx, store, "drama")
	movie := mustMovie(t, ctx, store, user.ID, "gone", 2000, genre.ID)
	if _, err := store.Movies().Delete(ctx, movie.ID); err != nil {
		t.Fatalf("delete movie: %v", err)
	}
	if err := store.Genres().Delete(ctx, genre.ID); err != nil {
		t.Fatalf("delete genre: %v", err)
	}
	if err := store.Users().Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	checks := []struct {
		name string
		id   string
		call func(id string) error
	}{
		{"user find", user.ID, func(id string) error { _, err := store.Users().FindByID(ctx, id); return err }},
		{"user update", user.ID, func(id string) error {
			n := "x"
			_, err := store.Users().Update(ctx, id, domain.UserPatch{Name: &n})
			return err
		}},
		{"user delete", user.ID, func(id string) error { return store.Users().Delete(ctx, id) }},
		{"movie find", movie.ID, func(id string) error { _, err := store.Movies().FindByID(ctx, id); return err }},
		{"movie update", movie.ID, func(id string) error {
			y := 1
			_, err := store.Movies().Update(ctx, id, domain.MoviePatch{Year: &y})
			return err
		}},
		{"movie delete", movie.ID, func(id string) error { _, err := store.Movies().Delete(ctx, id); return err }},
		{"genre find", genre.ID, func(id string) error { _, err := store.Genres().FindByID(ctx, id); return err }},
		{"genre update", genre.ID, func(id string) error { _, err := store.Genres().Update(ctx, id, "x"); return err }},
		{"genre delete", genre.ID, func(id string) error { return store.Genres().Delete(ctx, id) }},
	}

	for _, c := range checks {
		for _, id := range []string{c.id, "not-an-id", ""} {
			if err := c.call(id); !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("%s(%q): expected ErrNotFound, got %v", c.name, id, err)
			}
		}
	}

	if _, err := store.Genres().FindByName(ctx, "no-such-genre"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("genre by name: expected ErrNotFound, got %v", err)
	}
}

func testUserPagination(t *testing.T, ctx context.Context, store ports.Datastore) {
	for i := 0; i < 6; i++ {
		mustUser(t, ctx, store, fmt.Sprintf("user%d@example.com", i))
	}

	page, total, err := store.Users().FindAll(ctx, pagination.NewWindow(2, 4))
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if total != 6 || len(page) != 2 {
		t.Fatalf("expected 2 of 6 users on page 2, got %d of %d", len(page), total)
	}
	if page[0].Email != "user4@example.com" {
		t.Fatalf("expected creation order, first on page 2 is %s", page[0].Email)
	}
}

func testUserMoviesOrder(t *testing.T, ctx context.Context, store ports.Datastore) {
	user := mustUser(t, ctx, store, "order@example.com")
	genre := mustGenre(t, ctx, store, "comedy")

	var want []string
	for _, title := range []string{"zeta", "alpha", "mid"} {
		want = append(want, mustMovie(t, ctx, store, user.ID, title, 2001, genre.ID).ID)
	}

	got, err := store.Users().FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if !equalStrings(movieIDs(got.Movies), want) {
		t.Fatalf("movies order = %v, want %v", movieIDs(got.Movies), want)
	}
	if len(got.Movies[0].Genres) != 1 || got.Movies[0].Genres[0].Name != "comedy" {
		t.Fatalf("user movies must carry genres, got %+v", got.Movies[0].Genres)
	}
}

func testUserDeleteCascade(t *testing.T, ctx context.Context, store ports.Datastore) {
	user := mustUser(t, ctx, store, "cascade@example.com")
	other := mustUser(t, ctx, store, "keep@example.com")
	genre := mustGenre(t, ctx, store, "horror")
	doomed := mustMovie(t, ctx, store, user.ID, "doomed", 1980, genre.ID)
	mustMovie(t, ctx, store, user.ID, "doomed too", 1981, genre.ID)
	kept := mustMovie(t, ctx, store, other.ID, "kept", 1982, genre.ID)

	if err := store.Users().Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := store.Movies().FindByID(ctx, doomed.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected orphan movie gone, got %v", err)
	}
	movies, total, err := store.Movies().FindAll(ctx, domain.MovieFilter{}, pagination.All())
	if err != nil {
		t.Fatalf("list movies: %v", err)
	}
	if total != 1 || movies[0].ID != kept.ID {
		t.Fatalf("expected only the other user's movie, got %v", movieIDs(movies))
	}
	if _, err := store.Genres().FindByID(ctx, genre.ID); err != nil {
		t.Fatalf("genre must survive user deletion: %v", err)
	}
}

func testMovieCreateFind(t *testing.T, ctx context.Context, store ports.Datastore) {
	user := mustUser(t, ctx, store, "owner@example.com")
	action := mustGenre(t, ctx, store, "action")
	scifi := mustGenre(t, ctx, store, "sci-fi")

	created, err := store.Movies().Create(ctx, domain.NewMovie{
		Title:       "the matrix",
		Year:        1999,
		Description: "a hacker learns the truth",
		Language:    "english",
		GenreIDs:    []string{action.ID, scifi.ID, action.ID},
		Image:       &domain.Image{PublicID: "movieImage/abc.png", SecureURL: "http://media/movies/movieImage/abc.png"},
		UserID:      user.ID,
	})
	if err != nil {
		t.Fatalf("create movie: %v", err)
	}

	got, err := store.Movies().FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find movie: %v", err)
	}
	if got.Title != "the matrix" || got.Year != 1999 || got.Description != "a hacker learns the truth" ||
		got.Language != "english" || got.UserID != user.ID {
		t.Fatalf("unexpected movie %+v", got)
	}
	if names := genreNames(got.Genres); !equalStrings(names, []string{"action", "sci-fi"}) {
		t.Fatalf("genres = %v", names)
	}
	if got.Image == nil || got.Image.PublicID != "movieImage/abc.png" {
		t.Fatalf("image not persisted: %+v", got.Image)
	}
	if !equalStrings(genreNames(created.Genres), genreNames(got.Genres)) || created.Image == nil || created.Image.SecureURL != got.Image.SecureURL {
		t.Fatalf("create result differs from stored movie")
	}

	owner, err := store.Users().FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find owner: %v", err)
	}
	if !equalStrings(movieIDs(owner.Movies), []string{created.ID}) {
		t.Fatalf("owner movies = %v", movieIDs(owner.Movies))
	}
}

func testMovieUnknownOwner(t *testing.T, ctx context.Context, store ports.Datastore) {
	user := mustUser(t, ctx, store, "ghost@example.com")
	if err := store.Users().Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	_, err := store.Movies().Create(ctx, domain.NewMovie{Title: "x", Year: 1, Description: "d", Language: "l", UserID: user.ID})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, total, err := store.Movies().FindAll(ctx, domain.MovieFilter{}, pagination.All())
	if err != nil {
		t.Fatalf("list movies: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected no movie to be stored, got %d", total)
	}
}

func testMovieUnknownGenre(t *testing.T, ctx context.Context, store ports.Datastore) {
	user := mustUser(t, ctx, store, "genreless@example.com")
	genre := mustGenre(t, ctx, store, "temp")
	if err := store.Genres().Delete(ctx, genre.ID); err != nil {
		t.Fatalf("delete genre: %v", err)
	}

	_, err := store.Movies().Create(ctx, domain.NewMovie{
		Title: "x", Year: 1, Description: "d", Language: "l", UserID: user.ID, GenreIDs: []string{genre.ID},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func testMoviePagination(t *testing.T, ctx context.Context, store ports.Datastore) {
	user := mustUser(t, ctx, store, "pager@example.com")
	genre := mustGenre(t, ctx, store, "western")
	for i := 0; i < 10; i++ {
		mustMovie(t, ctx, store, user.ID, fmt.Sprintf("movie %02d", i), 1990+i, genre.ID)
	}

	tests := []struct {
		page    int
		wantLen int
		first   string
	}{
		{page: 1, wantLen: 4, first: "movie 00"},
		{page: 2, wantLen: 4, first: "movie 04"},
		{page: 3, wantLen: 2, first: "movie 08"},
		{page: 4, wantLen: 0},
	}
	for _, tt := range tests {
		movies, total, err := store.Movies().FindAll(ctx, domain.MovieFilter{}, pagination.NewWindow(tt.page, 4))
		if err != nil {
			t.Fatalf("page %d: %v", tt.page, err)
		}
		if total != 10 {
			t.Fatalf("page %d: total = %d, want 10", tt.page, total)
		}
		if got := pagination.TotalPages(total, 4); got != 3 {
			t.Fatalf("total pages = %d, want 3", got)
		}
		if len(movies) != tt.wantLen {
			t.Fatalf("page %d: len = %d, want %d", tt.page, len(movies), tt.wantLen)
		}
		if tt.wantLen > 0 && movies[0].Title != tt.first {
			t.Fatalf("page %d: first = %s, want %s", tt.page, movies[0].Title, tt.first)
		}
	}
}

func testMovieFilters(t *testing.T, ctx context.Context, store ports.Datastore) {
	alice := mustUser(t, ctx, store, "alice@example.com")
	bob := mustUser(t, ctx, store, "bob@example.com")
	drama := mustGenre(t, ctx, store, "drama")
	crime := mustGenre(t, ctx, store, "crime")

	godfather := mustMovie(t, ctx, store, alice.ID, "the godfather", 1972, drama.ID, crime.ID)
	mustMovie(t, ctx, store, alice.ID, "amelie", 2001, drama.ID)
	heat := mustMovie(t, ctx, store, bob.ID, "heat", 1995, crime.ID)
	mustMovie(t, ctx, store, bob.ID, "100%_real", 2001, drama.ID)

	year := 2001
	tests := []struct {
		name   string
		filter domain.MovieFilter
		want   int64
	}{
		{"all", domain.MovieFilter{}, 4},
		{"by user", domain.MovieFilter{UserID: alice.ID}, 2},
		{"by genre", domain.MovieFilter{GenreID: crime.ID}, 2},
		{"by genre and user", domain.MovieFilter{GenreID: crime.ID, UserID: bob.ID}, 1},
		{"title substring ignores case", domain.MovieFilter{Title: "GODFATHER"}, 1},
		{"title metacharacters are literal", domain.MovieFilter{Title: "0%_r"}, 1},
		{"title underscore is not a wildcard", domain.MovieFilter{Title: "e_"}, 0},
		{"by year", domain.MovieFilter{Year: &year}, 2},
		{"unknown user id", domain.MovieFilter{UserID: "nope"}, 0},
	}
	for _, tt := range tests {
		movies, total, err := store.Movies().FindAll(ctx, tt.filter, pagination.All())
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if total != tt.want || int64(len(movies)) != tt.want {
			t.Fatalf("%s: got %d (%d items), want %d", tt.name, total, len(movies), tt.want)
		}
	}

	movies, _, err := store.Movies().FindAll(ctx, domain.MovieFilter{GenreID: crime.ID}, pagination.All())
	if err != nil {
		t.Fatalf("by genre: %v", err)
	}
	if !equalStrings(movieIDs(movies), []string{godfather.ID, heat.ID}) {
		t.Fatalf("by genre ids = %v", movieIDs(movies))
	}
	if names := genreNames(movies[0].Genres); !equalStrings(names, []string{"crime", "drama"}) {
		t.Fatalf("filtered movie must carry all its genres, got %v", names)
	}
}

func testMovieUpdate(t *testing.T, ctx context.Context, store ports.Datastore) {
	user := mustUser(t, ctx, store, "editor@example.com")
	drama := mustGenre(t, ctx, store, "drama")
	comedy := mustGenre(t, ctx, store, "comedy")
	movie := mustMovie(t, ctx, store, user.ID, "draft", 2010, drama.ID)

	title := "final"
	updated, err := store.Movies().Update(ctx, movie.ID, domain.MoviePatch{Title: &title})
	if err != nil {
		t.Fatalf("update title: %v", err)
	}
	if updated.Title != "final" || updated.Year != 2010 || updated.Description != movie.Description {
		t.Fatalf("partial update changed other fields: %+v", updated)
	}
	if names := genreNames(updated.Genres); !equalStrings(names, []string{"drama"}) {
		t.Fatalf("nil GenreIDs must keep genres, got %v", names)
	}

	img := &domain.Image{PublicID: "movieImage/new.jpg", SecureURL: "http://media/new.jpg"}
	updated, err = store.Movies().Update(ctx, movie.ID, domain.MoviePatch{GenreIDs: []string{comedy.ID}, Image: img})
	if err != nil {
		t.Fatalf("update genres: %v", err)
	}
	if names := genreNames(updated.Genres); !equalStrings(names, []string{"comedy"}) {
		t.Fatalf("genres = %v, want [comedy]", names)
	}
	if updated.Image == nil || updated.Image.PublicID != "movieImage/new.jpg" {
		t.Fatalf("image not replaced: %+v", updated.Image)
	}

	img2 := &domain.Image{PublicID: "movieImage/newer.jpg", SecureURL: "http://media/newer.jpg"}
	updated, err = store.Movies().Update(ctx, movie.ID, domain.MoviePatch{Image: img2})
	if err != nil {
		t.Fatalf("replace image: %v", err)
	}
	if updated.Image == nil || updated.Image.PublicID != "movieImage/newer.jpg" {
		t.Fatalf("image not replaced twice: %+v", updated.Image)
	}
}

func testMovieDelete(t *testing.T, ctx context.Context, store ports.Datastore) {
	user := mustUser(t, ctx, store, "deleter@example.com")
	genre := mustGenre(t, ctx, store, "noir")
	first := mustMovie(t, ctx, store, user.ID, "first", 1950, genre.ID)
	second := mustMovie(t, ctx, store, user.ID, "second", 1951, genre.ID)

	deleted, err := store.Movies().Delete(ctx, first.ID)
	if err != nil {
		t.Fatalf("delete movie: %v", err)
	}
	if deleted.ID != first.ID || deleted.Title != "first" || len(deleted.Genres) != 1 {
		t.Fatalf("delete must return the stored movie, got %+v", deleted)
	}

	owner, err := store.Users().FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find owner: %v", err)
	}
	if !equalStrings(movieIDs(owner.Movies), []string{second.ID}) {
		t.Fatalf("owner movies = %v, want [%s]", movieIDs(owner.Movies), second.ID)
	}
}

func testGenreDuplicate(t *testing.T, ctx context.Context, store ports.Datastore) {
	if _, err := store.Genres().Create(ctx, "thriller"); err != nil {
		t.Fatalf("create genre: %v", err)
	}
	if _, err := store.Genres().Create(ctx, "thriller"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func testGenreFindOrCreate(t *testing.T, ctx context.Context, store ports.Datastore) {
	first := mustGenre(t, ctx, store, "animation")
	second := mustGenre(t, ctx, store, "animation")
	if first.ID != second.ID || second.Name != "animation" {
		t.Fatalf("find or create returned %+v then %+v", first, second)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Genres().FindOrCreate(ctx, "musical"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent find or create: %v", err)
	}

	genres, total, err := store.Genres().FindAll(ctx, pagination.All())
	if err != nil {
		t.Fatalf("list genres: %v", err)
	}
	if total != 2 || !equalStrings(genreNames(genres), []string{"animation", "musical"}) {
		t.Fatalf("genres = %v (total %d)", genreNames(genres), total)
	}
}

func testGenreUpdateList(t *testing.T, ctx context.Context, store ports.Datastore) {
	g := mustGenre(t, ctx, store, "sf")
	mustGenre(t, ctx, store, "adventure")

	updated, err := store.Genres().Update(ctx, g.ID, "science fiction")
	if err != nil {
		t.Fatalf("update genre: %v", err)
	}
	if updated.ID != g.ID || updated.Name != "science fiction" {
		t.Fatalf("unexpected genre %+v", updated)
	}
	if _, err := store.Genres().Update(ctx, g.ID, "adventure"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict on rename, got %v", err)
	}

	page, total, err := store.Genres().FindAll(ctx, pagination.NewWindow(1, 1))
	if err != nil {
		t.Fatalf("list genres: %v", err)
	}
	if total != 2 || len(page) != 1 || page[0].Name != "adventure" {
		t.Fatalf("expected first genre by name, got %+v (total %d)", page, total)
	}
}

func testGenreDelete(t *testing.T, ctx context.Context, store ports.Datastore) {
	user := mustUser(t, ctx, store, "genres@example.com")
	keep := mustGenre(t, ctx, store, "keep")
	drop := mustGenre(t, ctx, store, "drop")
	movie := mustMovie(t, ctx, store, user.ID, "linked", 2005, keep.ID, drop.ID)

	if err := store.Genres().Delete(ctx, drop.ID); err != nil {
		t.Fatalf("delete genre: %v", err)
	}

	got, err := store.Movies().FindByID(ctx, movie.ID)
	if err != nil {
		t.Fatalf("find movie: %v", err)
	}
	if names := genreNames(got.Genres); !equalStrings(names, []string{"keep"}) {
		t.Fatalf("genres after delete = %v", names)
	}
	_, total, err := store.Movies().FindAll(ctx, domain.MovieFilter{GenreID: drop.ID}, pagination.All())
	if err != nil {
		t.Fatalf("list by deleted genre: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected no movies under deleted genre, got %d", total)
	}
}
