package domain

// MaxGenreNameLength is the longest genre name, in characters, either store accepts.
const MaxGenreNameLength = 100

// Genre is identified by a unique, lowercased name.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GenreWithMovies groups a genre with a subset of its movies.
type GenreWithMovies struct {
	Genre
	Movies []Movie `json:"movies"`
}
