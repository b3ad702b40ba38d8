package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/usecase"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	internalErrorMessage = "Internal server error"
)

// envelope wraps every successful response.
type envelope struct {
	Status     string         `json:"status"`
	Message    string         `json:"message,omitempty"`
	Data       any            `json:"data"`
	Pagination map[string]any `json:"pagination,omitempty"`
}

type errorEnvelope struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// respondWithJSON sends payload as JSON with the given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload any, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError sends the error envelope.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, errorEnvelope{Status: statusError, Error: message}, logger)
}

func respondWithData(w http.ResponseWriter, code int, message string, data any, logger *slog.Logger) {
	respondWithJSON(w, code, envelope{Status: statusSuccess, Message: message, Data: data}, logger)
}

// respondWithPage sends one page of a listing. totalKey names the total
// counter in the pagination block ("totalMovies", "totalUsers").
func respondWithPage[T any](w http.ResponseWriter, page usecase.Page[T], totalKey string, logger *slog.Logger) {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	respondWithJSON(w, http.StatusOK, envelope{
		Status: statusSuccess,
		Data:   items,
		Pagination: map[string]any{
			"currentPage": page.Page,
			"pageSize":    page.PageSize,
			totalKey:      page.Total,
			"totalPages":  page.TotalPages,
		},
	}, logger)
}

// respondWithUseCaseError maps domain errors to status codes. Unknown
// errors are logged and hidden behind a generic message.
func respondWithUseCaseError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		respondWithError(w, http.StatusBadRequest, validationMessage(err), logger)
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, upperFirst(err.Error()), logger)
	case errors.Is(err, domain.ErrConflict):
		respondWithError(w, http.StatusBadRequest, upperFirst(err.Error()), logger)
	default:
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		respondWithError(w, http.StatusInternalServerError, internalErrorMessage, logger)
	}
}

// validationMessage strips the sentinel prefix from a wrapped validation error.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": ")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errors.New("request body must be a valid JSON object")
	}
	return nil
}
