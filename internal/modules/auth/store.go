package auth

import (
	"context"
	"errors"
	"time"

	"github.com/portfolio-site/core/internal/models"
	"github.com/portfolio-site/core/internal/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Users is the user persistence. It also satisfies middleware.UserFinder.
type Users interface {
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	Upsert(ctx context.Context, u *models.User) (*models.User, error)
}

type mongoUsers struct {
	coll *mongo.Collection
}

func NewMongoUsers(db *mongo.Database) Users {
	return &mongoUsers{coll: db.Collection(models.CollectionUsers)}
}

func (s *mongoUsers) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, ok := models.ParseID(id)
	if !ok {
		return nil, apperror.NotFound("User")
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *mongoUsers) TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"lastLoginAt": at}})
	return err
}

// Upsert writes u keyed by email, keeping the original id and createdAt.
func (s *mongoUsers) Upsert(ctx context.Context, u *models.User) (*models.User, error) {
	update := bson.M{
		"$set": bson.M{
			"name":      u.Name,
			"password":  u.PasswordHash,
			"role":      u.Role,
			"isActive":  u.IsActive,
			"updatedAt": u.UpdatedAt,
		},
		"$setOnInsert": bson.M{"createdAt": u.CreatedAt},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var out models.User
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"email": u.Email}, update, opts).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *mongoUsers) findOne(ctx context.Context, q bson.M) (*models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, q).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound("User")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
