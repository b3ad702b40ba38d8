package postgres

import (
	"time"

	"github.com/google/uuid"

	"github.com/GoArmGo/MovieCatalog/internal/domain"
)

// userModel maps the users table.
type userModel struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Name      string       `gorm:"size:30;not null"`
	Email     string       `gorm:"size:255;not null;uniqueIndex"`
	Password  *string      `gorm:"column:password"`
	Movies    []movieModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userModel) TableName() string {
	return "users"
}

// movieModel maps the movies table. Genres go through movie_genres.
type movieModel struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Title       string       `gorm:"not null"`
	Year        int          `gorm:"not null"`
	Description string       `gorm:"not null"`
	Language    string       `gorm:"not null"`
	UserID      uuid.UUID    `gorm:"type:uuid;not null;index"`
	Genres      []genreModel `gorm:"many2many:movie_genres;joinForeignKey:MovieID;joinReferences:GenreID"`
	Image       *imageModel  `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (movieModel) TableName() string {
	return "movies"
}

type genreModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:100;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (genreModel) TableName() string {
	return "genres"
}

// movieGenreModel is a row of the movie_genres join table.
type movieGenreModel struct {
	MovieID uuid.UUID `gorm:"type:uuid;primaryKey"`
	GenreID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

func (movieGenreModel) TableName() string {
	return "movie_genres"
}

// imageModel is the one-to-one image row of a movie.
type imageModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	MovieID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	PublicID  string    `gorm:"not null"`
	SecureURL string    `gorm:"not null"`
	CreatedAt time.Time
}

func (imageModel) TableName() string {
	return "images"
}

func (m userModel) toDomain() domain.User {
	user := domain.User{
		ID:           m.ID.String(),
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.Password,
		Movies:       make([]domain.Movie, 0, len(m.Movies)),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	for _, movie := range m.Movies {
		user.Movies = append(user.Movies, movie.toDomain())
	}
	return user
}

func (m movieModel) toDomain() domain.Movie {
	movie := domain.Movie{
		ID:          m.ID.String(),
		Title:       m.Title,
		Year:        m.Year,
		Description: m.Description,
		Language:    m.Language,
		Genres:      make([]domain.Genre, 0, len(m.Genres)),
		UserID:      m.UserID.String(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for _, g := range m.Genres {
		movie.Genres = append(movie.Genres, g.toDomain())
	}
	if m.Image != nil {
		movie.Image = &domain.Image{PublicID: m.Image.PublicID, SecureURL: m.Image.SecureURL}
	}
	return movie
}

func (m genreModel) toDomain() domain.Genre {
	return domain.Genre{ID: m.ID.String(), Name: m.Name}
}
