package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/pagination"
)

// UserStorage implements ports.UserRepository on the users collection.
type UserStorage struct {
	db     *mongo.Database
	logger *slog.Logger
}

var _ ports.UserRepository = (*UserStorage)(nil)

func (s *UserStorage) coll() *mongo.Collection {
	return s.db.Collection(usersCollection)
}

func (s *UserStorage) Create(ctx context.Context, user domain.NewUser) (*domain.User, error) {
	start := time.Now()

	ts := now()
	doc := userDocument{
		ID:        bson.NewObjectID(),
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Movies:    []bson.ObjectID{},
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if _, err := s.coll().InsertOne(ctx, doc); err != nil {
		err = translateError(err)
		s.logger.Error("failed to create user", "email", user.Email, "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created",
		"id", doc.ID.Hex(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	users, err := populateUsers(ctx, s.db, []userDocument{doc})
	if err != nil {
		return nil, err
	}
	return &users[0], nil
}

func (s *UserStorage) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	if err := s.coll().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, translateError(err))
	}
	users, err := populateUsers(ctx, s.db, []userDocument{doc})
	if err != nil {
		return nil, err
	}
	return &users[0], nil
}

func (s *UserStorage) FindAll(ctx context.Context, window pagination.Window) ([]domain.User, int64, error) {
	start := time.Now()

	total, err := s.coll().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if window.Paged() {
		opts.SetSkip(int64(window.Skip)).SetLimit(int64(window.Take))
	}
	cur, err := s.coll().Find(ctx, bson.M{}, opts)
	if err != nil {
		s.logger.Error("failed to list users", "page", window.Page, "error", err)
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}

	users, err := populateUsers(ctx, s.db, docs)
	if err != nil {
		return nil, 0, err
	}

	s.logger.Debug("users listed",
		"found", len(users),
		"total", total,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return users, total, nil
}

func (s *UserStorage) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.PasswordHash != nil {
		set["password"] = *patch.PasswordHash
	}

	var doc userDocument
	err = s.coll().FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		err = translateError(err)
		s.logger.Error("failed to update user", "id", id, "error", err)
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}

	s.logger.Info("user updated", "id", id)
	users, err := populateUsers(ctx, s.db, []userDocument{doc})
	if err != nil {
		return nil, err
	}
	return &users[0], nil
}

// Delete removes the user and every movie the user owns.
func (s *UserStorage) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	var doc userDocument
	if err := s.coll().FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return fmt.Errorf("delete user %s: %w", id, translateError(err))
	}

	res, err := s.db.Collection(moviesCollection).DeleteMany(ctx, bson.M{"userId": oid})
	if err != nil {
		s.logger.Error("failed to delete user movies", "id", id, "error", err)
		return fmt.Errorf("delete movies of user %s: %w", id, err)
	}

	s.logger.Info("user deleted", "id", id, "movies_deleted", res.DeletedCount)
	return nil
}
