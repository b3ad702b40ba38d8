package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/GoArmGo/MovieCatalog/internal/metrics"
	"github.com/GoArmGo/MovieCatalog/internal/usecase"
)

// RouterConfig collects what the HTTP surface depends on.
type RouterConfig struct {
	Users  usecase.UserUseCase
	Movies usecase.MovieUseCase
	Genres usecase.GenreUseCase
	Store  Pinger

	// Metrics is optional.
	Metrics *metrics.HTTPMetrics

	Auth           JWTConfig
	MaxUploadBytes int64
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter builds the chi router with every route of the API.
func NewRouter(cfg RouterConfig) http.Handler {
	users := NewUserHandler(cfg.Users, cfg.Logger)
	movies := NewMovieHandler(cfg.Movies, cfg.Logger)
	genres := NewGenreHandler(cfg.Genres, cfg.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/healthz", Healthz(cfg.Store, cfg.Logger))
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	auth := RequireJWT(cfg.Auth, cfg.Logger)
	complete := ValidateMovie(true, cfg.MaxUploadBytes, cfg.Logger)
	partial := ValidateMovie(false, cfg.MaxUploadBytes, cfg.Logger)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", users.CreateUser)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/", users.ListUsers)
			r.Get("/{userId}", users.GetUser)
			r.Put("/{userId}", users.UpdateUser)
			r.Delete("/{userId}", users.DeleteUser)
		})
	})

	r.Route("/movies", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", movies.ListMovies)
		r.With(complete).Post("/{userId}", movies.CreateMovie)
		r.Get("/{movieId}", movies.GetMovie)
		r.With(complete).Put("/{movieId}", movies.ReplaceMovie)
		r.With(partial).Patch("/{movieId}", movies.PatchMovie)
		r.Delete("/{movieId}", movies.DeleteMovie)
	})

	r.Route("/genres", func(r chi.Router) {
		r.Use(auth)
		r.Post("/", genres.CreateGenre)
		r.Get("/", genres.ListGenres)
		r.Get("/{userId}", genres.GenresWithUserMovies)
		r.Get("/{genreName}/{userId}", genres.MoviesByGenreAndUser)
	})

	return r
}
