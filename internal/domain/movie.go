package domain

import "time"

// Release years outside this range are rejected.
const (
	MinYear = 1
	MaxYear = 9999
)

// Movie is the canonical movie record: many genres, optional image, one owner.
type Movie struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Year        int       `json:"year"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Genres      []Genre   `json:"genres"`
	Image       *Image    `json:"image,omitempty"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Image references an object stored on the media host.
type Image struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// NewMovie carries the fields required to create a movie. GenreIDs must
// reference existing genres.
type NewMovie struct {
	Title       string
	Year        int
	Description string
	Language    string
	GenreIDs    []string
	Image       *Image
	UserID      string
}

// MoviePatch describes a partial update. A nil GenreIDs keeps the current
// genres; a non-nil slice replaces them.
type MoviePatch struct {
	Title       *string
	Year        *int
	Description *string
	Language    *string
	GenreIDs    []string
	Image       *Image
}

// IsEmpty reports whether the patch changes nothing.
func (p MoviePatch) IsEmpty() bool {
	return p.Title == nil && p.Year == nil && p.Description == nil &&
		p.Language == nil && p.GenreIDs == nil && p.Image == nil
}

// MovieFilter narrows movie listings. Empty fields do not filter.
type MovieFilter struct {
	UserID  string
	GenreID string
	Title   string
	Year    *int
}
