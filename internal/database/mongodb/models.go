package mongodb

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/GoArmGo/MovieCatalog/internal/domain"
)

type userDocument struct {
	ID        bson.ObjectID   `bson:"_id"`
	Name      string          `bson:"name"`
	Email     string          `bson:"email"`
	Password  *string         `bson:"password,omitempty"`
	Movies    []bson.ObjectID `bson:"movies"`
	CreatedAt time.Time       `bson:"createdAt"`
	UpdatedAt time.Time       `bson:"updatedAt"`
}

type movieDocument struct {
	ID          bson.ObjectID   `bson:"_id"`
	Title       string          `bson:"title"`
	Year        int             `bson:"year"`
	Description string          `bson:"description"`
	Language    string          `bson:"language"`
	GenreIDs    []bson.ObjectID `bson:"genreIds"`
	Image       *imageDocument  `bson:"image,omitempty"`
	UserID      bson.ObjectID   `bson:"userId"`
	CreatedAt   time.Time       `bson:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt"`
}

type imageDocument struct {
	PublicID  string `bson:"public_id"`
	SecureURL string `bson:"secure_url"`
}

type genreDocument struct {
	ID        bson.ObjectID `bson:"_id"`
	Name      string        `bson:"name"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d genreDocument) toDomain() domain.Genre {
	return domain.Genre{ID: d.ID.Hex(), Name: d.Name}
}

// now is truncated to the millisecond precision BSON dates keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return bson.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}

func parseIDs(ids []string) ([]bson.ObjectID, error) {
	out := make([]bson.ObjectID, 0, len(ids))
	seen := make(map[bson.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		oid, err := parseID(id)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[oid]; dup {
			continue
		}
		seen[oid] = struct{}{}
		out = append(out, oid)
	}
	return out, nil
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return domain.ErrConflict
	}
	return err
}
