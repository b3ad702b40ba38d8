package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/pagination"
	"github.com/GoArmGo/MovieCatalog/internal/usecase"
)

// GenreHandler serves /genres.
type GenreHandler struct {
	genres usecase.GenreUseCase
	logger *slog.Logger
}

func NewGenreHandler(genres usecase.GenreUseCase, logger *slog.Logger) *GenreHandler {
	return &GenreHandler{genres: genres, logger: logger}
}

type createGenreRequest struct {
	Name string `json:"name"`
}

func (h *GenreHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	var req createGenreRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
		return
	}

	genre, err := h.genres.CreateGenre(r.Context(), req.Name)
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	respondWithData(w, http.StatusCreated, "Genre created successfully", genre, h.logger)
}

func (h *GenreHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.genres.ListGenres(r.Context())
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	if genres == nil {
		genres = []domain.Genre{}
	}
	respondWithData(w, http.StatusOK, "", genres, h.logger)
}

func (h *GenreHandler) GenresWithUserMovies(w http.ResponseWriter, r *http.Request) {
	genres, err := h.genres.GenresWithUserMovies(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	respondWithData(w, http.StatusOK, "", genres, h.logger)
}

func (h *GenreHandler) MoviesByGenreAndUser(w http.ResponseWriter, r *http.Request) {
	movies, err := h.genres.MoviesByGenreAndUser(
		r.Context(),
		chi.URLParam(r, "genreName"),
		chi.URLParam(r, "userId"),
		pagination.ParsePage(r.URL.Query().Get("page")),
	)
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	respondWithPage(w, movies, "totalMovies", h.logger)
}
