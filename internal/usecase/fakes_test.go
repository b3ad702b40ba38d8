package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/messaging/payloads"
	"github.com/GoArmGo/MovieCatalog/internal/pagination"
)

// memStore is an in-memory ports.Datastore for use case tests.
type memStore struct {
	mu      sync.Mutex
	seq     int
	users   map[string]*domain.User
	order   []string
	movies  map[string]*domain.Movie
	mOrder  []string
	genres  map[string]*domain.Genre
	failOps map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]*domain.User{},
		movies:  map[string]*domain.Movie{},
		genres:  map[string]*domain.Genre{},
		failOps: map[string]error{},
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) Users() ports.UserRepository   { return memUsers{s} }
func (s *memStore) Movies() ports.MovieRepository { return memMovies{s} }
func (s *memStore) Genres() ports.GenreRepository { return memGenres{s} }
func (s *memStore) Ping(context.Context) error    { return nil }
func (s *memStore) Close(context.Context) error   { return nil }

func (s *memStore) fail(op string) error {
	return s.failOps[op]
}

func (s *memStore) movieCopy(id string) domain.Movie {
	m := *s.movies[id]
	m.Genres = make([]domain.Genre, 0, len(s.movies[id].Genres))
	for _, g := range s.movies[id].Genres {
		if cur, ok := s.genres[g.ID]; ok {
			m.Genres = append(m.Genres, *cur)
		}
	}
	return m
}

func (s *memStore) userCopy(id string) domain.User {
	u := *s.users[id]
	u.Movies = []domain.Movie{}
	for _, mid := range s.mOrder {
		if m, ok := s.movies[mid]; ok && m.UserID == id {
			u.Movies = append(u.Movies, s.movieCopy(mid))
		}
	}
	return u
}

func window[T any](items []T, w pagination.Window) []T {
	if !w.Paged() {
		return items
	}
	if w.Skip >= len(items) {
		return []T{}
	}
	end := w.Skip + w.Take
	if end > len(items) {
		end = len(items)
	}
	return items[w.Skip:end]
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, in domain.NewUser) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.create"); err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if u.Email == in.Email {
			return nil, domain.ErrConflict
		}
	}
	id := r.s.nextID("user")
	r.s.users[id] = &domain.User{ID: id, Name: in.Name, Email: in.Email, PasswordHash: in.PasswordHash}
	r.s.order = append(r.s.order, id)
	u := r.s.userCopy(id)
	return &u, nil
}

func (r memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return nil, domain.ErrNotFound
	}
	u := r.s.userCopy(id)
	return &u, nil
}

func (r memUsers) FindAll(_ context.Context, w pagination.Window) ([]domain.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.User
	for _, id := range r.s.order {
		if _, ok := r.s.users[id]; ok {
			all = append(all, r.s.userCopy(id))
		}
	}
	return window(all, w), int64(len(all)), nil
}

func (r memUsers) Update(_ context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Email != nil {
		for oid, other := range r.s.users {
			if oid != id && other.Email == *p.Email {
				return nil, domain.ErrConflict
			}
		}
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.PasswordHash != nil {
		u.PasswordHash = p.PasswordHash
	}
	c := r.s.userCopy(id)
	return &c, nil
}

func (r memUsers) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.users, id)
	for mid, m := range r.s.movies {
		if m.UserID == id {
			delete(r.s.movies, mid)
		}
	}
	return nil
}

type memMovies struct{ s *memStore }

func (r memMovies) Create(_ context.Context, in domain.NewMovie) (*domain.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("movies.create"); err != nil {
		return nil, err
	}
	if _, ok := r.s.users[in.UserID]; !ok {
		return nil, domain.ErrNotFound
	}
	m := &domain.Movie{
		ID: r.s.nextID("movie"), Title: in.Title, Year: in.Year, Description: in.Description,
		Language: in.Language, Image: in.Image, UserID: in.UserID,
	}
	for _, gid := range in.GenreIDs {
		g, ok := r.s.genres[gid]
		if !ok {
			return nil, domain.ErrNotFound
		}
		m.Genres = append(m.Genres, *g)
	}
	r.s.movies[m.ID] = m
	r.s.mOrder = append(r.s.mOrder, m.ID)
	c := r.s.movieCopy(m.ID)
	return &c, nil
}

func (r memMovies) FindByID(_ context.Context, id string) (*domain.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movies[id]; !ok {
		return nil, domain.ErrNotFound
	}
	c := r.s.movieCopy(id)
	return &c, nil
}

func (r memMovies) FindAll(_ context.Context, f domain.MovieFilter, w pagination.Window) ([]domain.Movie, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.Movie
	for _, id := range r.s.mOrder {
		m, ok := r.s.movies[id]
		if !ok {
			continue
		}
		if f.UserID != "" && m.UserID != f.UserID {
			continue
		}
		if f.Title != "" && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(f.Title)) {
			continue
		}
		if f.Year != nil && m.Year != *f.Year {
			continue
		}
		if f.GenreID != "" {
			found := false
			for _, g := range m.Genres {
				found = found || g.ID == f.GenreID
			}
			if !found {
				continue
			}
		}
		all = append(all, r.s.movieCopy(id))
	}
	return window(all, w), int64(len(all)), nil
}

func (r memMovies) Update(_ context.Context, id string, p domain.MoviePatch) (*domain.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("movies.update"); err != nil {
		return nil, err
	}
	m, ok := r.s.movies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Year != nil {
		m.Year = *p.Year
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Language != nil {
		m.Language = *p.Language
	}
	if p.GenreIDs != nil {
		m.Genres = nil
		for _, gid := range p.GenreIDs {
			m.Genres = append(m.Genres, *r.s.genres[gid])
		}
	}
	if p.Image != nil {
		m.Image = p.Image
	}
	c := r.s.movieCopy(id)
	return &c, nil
}

func (r memMovies) Delete(_ context.Context, id string) (*domain.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.movies[id]; !ok {
		return nil, domain.ErrNotFound
	}
	c := r.s.movieCopy(id)
	delete(r.s.movies, id)
	return &c, nil
}

type memGenres struct{ s *memStore }

func (r memGenres) byName(name string) *domain.Genre {
	for _, g := range r.s.genres {
		if g.Name == name {
			return g
		}
	}
	return nil
}

func (r memGenres) Create(_ context.Context, name string) (*domain.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.byName(name) != nil {
		return nil, domain.ErrConflict
	}
	g := &domain.Genre{ID: r.s.nextID("genre"), Name: name}
	r.s.genres[g.ID] = g
	c := *g
	return &c, nil
}

func (r memGenres) FindByID(_ context.Context, id string) (*domain.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.genres[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *g
	return &c, nil
}

func (r memGenres) FindByName(_ context.Context, name string) (*domain.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g := r.byName(name)
	if g == nil {
		return nil, domain.ErrNotFound
	}
	c := *g
	return &c, nil
}

func (r memGenres) FindOrCreate(ctx context.Context, name string) (*domain.Genre, error) {
	g, err := r.FindByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return r.Create(ctx, name)
	}
	return g, err
}

func (r memGenres) FindAll(_ context.Context, w pagination.Window) ([]domain.Genre, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := make([]domain.Genre, 0, len(r.s.genres))
	for _, g := range r.s.genres {
		all = append(all, *g)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return window(all, w), int64(len(all)), nil
}

func (r memGenres) Update(_ context.Context, id, name string) (*domain.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.genres[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	g.Name = name
	c := *g
	return &c, nil
}

func (r memGenres) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.genres[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.genres, id)
	return nil
}

// memFiles records uploads and deletions.
type memFiles struct {
	mu        sync.Mutex
	uploaded  map[string][]byte
	deleted   []string
	uploadErr error
}

func newMemFiles() *memFiles {
	return &memFiles{uploaded: map[string][]byte{}}
}

func (f *memFiles) UploadFile(_ context.Context, key string, r io.Reader, _ string) (*domain.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.uploaded[key] = body
	return &domain.Image{PublicID: key, SecureURL: "http://media.test/movies/" + key}, nil
}

func (f *memFiles) DeleteFile(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

// memCleanup records scheduled cleanup jobs.
type memCleanup struct {
	mu   sync.Mutex
	jobs []payloads.ImageCleanupPayload
	err  error
}

func (c *memCleanup) PublishImageCleanup(_ context.Context, p payloads.ImageCleanupPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.jobs = append(c.jobs, p)
	return nil
}
