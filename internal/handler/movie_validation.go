package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/usecase"
)

const imageField = "image"

// MovieFields is the normalised movie payload. Nil fields were absent.
type MovieFields struct {
	Title       *string
	Year        *int
	Description *string
	Language    *string
	Genres      []string
}

// Input converts complete fields into a use case input.
func (f MovieFields) Input() usecase.MovieInput {
	return usecase.MovieInput{
		Title:       deref(f.Title),
		Year:        derefInt(f.Year),
		Description: deref(f.Description),
		Language:    deref(f.Language),
		Genres:      f.Genres,
	}
}

// Patch converts fields into a partial update.
func (f MovieFields) Patch() usecase.MoviePatchInput {
	return usecase.MoviePatchInput{
		Title:       f.Title,
		Year:        f.Year,
		Description: f.Description,
		Language:    f.Language,
		Genres:      f.Genres,
	}
}

func (f MovieFields) complete() bool {
	return f.Title != nil && *f.Title != "" &&
		f.Year != nil && *f.Year != 0 &&
		f.Description != nil && *f.Description != "" &&
		f.Language != nil && *f.Language != "" &&
		len(f.Genres) > 0
}

type movieFieldsKey struct{}

// MovieFieldsFromContext returns the fields stored by ValidateMovie.
func MovieFieldsFromContext(ctx context.Context) (MovieFields, bool) {
	f, ok := ctx.Value(movieFieldsKey{}).(MovieFields)
	return f, ok
}

// ValidateMovie normalises a JSON or multipart movie body and stores the
// result in the request context. With requireAll every field must be
// present. An uploaded image stays on r.MultipartForm.
func ValidateMovie(requireAll bool, maxUploadBytes int64, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

			raw, err := readMovieBody(r, maxUploadBytes)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					respondWithError(w, http.StatusRequestEntityTooLarge, "request body is too large", logger)
					return
				}
				respondWithError(w, http.StatusBadRequest, err.Error(), logger)
				return
			}

			fields, err := coerceMovieFields(raw)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error(), logger)
				return
			}
			if requireAll && !fields.complete() {
				respondWithError(w, http.StatusBadRequest, "Please provide all required fields", logger)
				return
			}
			if err := checkImage(r); err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error(), logger)
				return
			}

			ctx := context.WithValue(r.Context(), movieFieldsKey{}, fields)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// readMovieBody returns the body as loosely typed values. Multipart values
// arrive as strings; JSON numbers as json.Number.
func readMovieBody(r *http.Request, maxUploadBytes int64) (map[string]any, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, err
			}
			return nil, errors.New("invalid multipart form")
		}
		out := make(map[string]any, len(r.MultipartForm.Value))
		for key, values := range r.MultipartForm.Value {
			if len(values) == 1 {
				out[key] = values[0]
				continue
			}
			list := make([]any, len(values))
			for i, v := range values {
				list[i] = v
			}
			out[key] = list
		}
		return out, nil
	}

	out := map[string]any{}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, errors.New("request body must be a valid JSON object")
	}
	return out, nil
}

func coerceMovieFields(raw map[string]any) (MovieFields, error) {
	var f MovieFields

	if v, ok := raw["title"]; ok && v != nil {
		title, err := scalarString("title", v)
		if err != nil {
			return f, err
		}
		title = strings.ToLower(strings.TrimSpace(title))
		f.Title = &title
	}

	if v, ok := raw["year"]; ok && v != nil {
		year, err := coerceYear(v)
		if err != nil {
			return f, err
		}
		f.Year = &year
	}

	if v, ok := raw["description"]; ok && v != nil {
		desc, err := scalarString("description", v)
		if err != nil {
			return f, err
		}
		desc = strings.TrimSpace(desc)
		f.Description = &desc
	}

	if v, ok := raw["language"]; ok && v != nil {
		lang, isString := v.(string)
		if !isString {
			return f, errors.New("language must be a string")
		}
		lang = strings.TrimSpace(lang)
		f.Language = &lang
	}

	genreValue, ok := raw["genres"]
	if !ok || genreValue == nil {
		genreValue, ok = raw["genre"]
	}
	if ok && genreValue != nil {
		genres, err := coerceGenres(genreValue)
		if err != nil {
			return f, err
		}
		f.Genres = genres
	}
	return f, nil
}

// scalarString accepts strings and numbers.
func scalarString(field string, v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	}
	return "", fmt.Errorf("%s must be a string", field)
}

func coerceYear(v any) (int, error) {
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0, errors.New("year must be a number")
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("year must be a number")
	}
	if year < domain.MinYear || year > domain.MaxYear {
		return 0, fmt.Errorf("year must be between %d and %d", domain.MinYear, domain.MaxYear)
	}
	return year, nil
}

// coerceGenres accepts one name, a comma separated list or an array of names.
// Names are lowercased, trimmed and deduplicated.
func coerceGenres(v any) ([]string, error) {
	var names []string
	switch t := v.(type) {
	case string:
		names = strings.Split(t, ",")
	case []any:
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, errors.New("genre names must be strings")
			}
			names = append(names, strings.Split(s, ",")...)
		}
	default:
		return nil, errors.New("genre must be a string or a list of strings")
	}

	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if utf8.RuneCountInString(name) > domain.MaxGenreNameLength {
			return nil, fmt.Errorf("genre names must be at most %d characters", domain.MaxGenreNameLength)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

func checkImage(r *http.Request) error {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[imageField]
	if len(files) == 0 {
		return nil
	}
	if len(files) > 1 {
		return errors.New("only one image may be uploaded")
	}
	contentType := files[0].Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return errors.New("image must be an image file")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
