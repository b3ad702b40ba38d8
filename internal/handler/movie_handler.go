package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GoArmGo/MovieCatalog/internal/pagination"
	"github.com/GoArmGo/MovieCatalog/internal/usecase"
)

// MovieHandler serves /movies. Write routes expect ValidateMovie in front.
type MovieHandler struct {
	movies usecase.MovieUseCase
	logger *slog.Logger
}

func NewMovieHandler(movies usecase.MovieUseCase, logger *slog.Logger) *MovieHandler {
	return &MovieHandler{movies: movies, logger: logger}
}

// imageUpload opens the uploaded image, if any. The returned closer is never nil.
func imageUpload(r *http.Request) (*usecase.Upload, func(), error) {
	noop := func() {}
	if r.MultipartForm == nil || len(r.MultipartForm.File[imageField]) == 0 {
		return nil, noop, nil
	}
	header := r.MultipartForm.File[imageField][0]
	file, err := header.Open()
	if err != nil {
		return nil, noop, err
	}
	return &usecase.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}, func() { _ = file.Close() }, nil
}

func (h *MovieHandler) fields(w http.ResponseWriter, r *http.Request) (MovieFields, bool) {
	fields, ok := MovieFieldsFromContext(r.Context())
	if !ok {
		h.logger.Error("movie route without validation middleware", "path", r.URL.Path)
		respondWithError(w, http.StatusInternalServerError, internalErrorMessage, h.logger)
	}
	return fields, ok
}

func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.fields(w, r)
	if !ok {
		return
	}
	image, closeImage, err := imageUpload(r)
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	defer closeImage()

	movie, err := h.movies.CreateMovie(r.Context(), chi.URLParam(r, "userId"), fields.Input(), image)
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	respondWithData(w, http.StatusCreated, "Movie created successfully", movie, h.logger)
}

func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := usecase.MovieQuery{
		Page:  pagination.ParsePage(query.Get("page")),
		Title: strings.TrimSpace(query.Get("title")),
		Genre: strings.TrimSpace(query.Get("genre")),
	}
	if raw := strings.TrimSpace(query.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "year must be a number", h.logger)
			return
		}
		q.Year = &year
	}

	movies, err := h.movies.ListMovies(r.Context(), q)
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	respondWithPage(w, movies, "totalMovies", h.logger)
}

func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.movies.GetMovie(r.Context(), chi.URLParam(r, "movieId"))
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	respondWithData(w, http.StatusOK, "", movie, h.logger)
}

func (h *MovieHandler) ReplaceMovie(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.fields(w, r)
	if !ok {
		return
	}
	image, closeImage, err := imageUpload(r)
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	defer closeImage()

	movie, err := h.movies.ReplaceMovie(r.Context(), chi.URLParam(r, "movieId"), fields.Input(), image)
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	respondWithData(w, http.StatusOK, "Movie updated successfully", movie, h.logger)
}

func (h *MovieHandler) PatchMovie(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.fields(w, r)
	if !ok {
		return
	}
	image, closeImage, err := imageUpload(r)
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	defer closeImage()

	movie, err := h.movies.PatchMovie(r.Context(), chi.URLParam(r, "movieId"), fields.Patch(), image)
	if err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	respondWithData(w, http.StatusOK, "Movie updated successfully", movie, h.logger)
}

func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	if err := h.movies.DeleteMovie(r.Context(), chi.URLParam(r, "movieId")); err != nil {
		respondWithUseCaseError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
