package content

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

type Store interface {
	ListActive(ctx context.Context) ([]models.Content, error)
	FindActive(ctx context.Context, section string) (*models.Content, error)
	Insert(ctx context.Context, c *models.Content) error
	Upsert(ctx context.Context, section string, p Patch, now time.Time) (*models.Content, error)
	Deactivate(ctx context.Context, section string, now time.Time) error
}

type mongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{coll: db.Collection(models.CollectionContents)}
}

func (s *mongoStore) ListActive(ctx context.Context) ([]models.Content, error) {
	opts := options.Find().SetSort(bson.D{{Key: "section", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	out := []models.Content{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoStore) FindActive(ctx context.Context, section string) (*models.Content, error) {
	var c models.Content
	err := s.coll.FindOne(ctx, bson.M{"section": section, "isActive": true}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound(resource)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *mongoStore) Insert(ctx context.Context, c *models.Content) error {
	res, err := s.coll.InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return apperror.Conflict("content section %q", c.Section)
	}
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = id
	}
	return nil
}

// upsertUpdate builds the $set / $setOnInsert pair. A field may only appear in one of them.
func upsertUpdate(p Patch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Subtitle != nil {
		set["subtitle"] = *p.Subtitle
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Metadata != nil {
		set["metadata"] = *p.Metadata
	}

	onInsert := bson.M{"createdAt": now}
	if p.IsActive != nil {
		set["isActive"] = *p.IsActive
	} else {
		onInsert["isActive"] = true
	}
	return bson.M{"$set": set, "$setOnInsert": onInsert}
}

func (s *mongoStore) Upsert(ctx context.Context, section string, p Patch, now time.Time) (*models.Content, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var c models.Content
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"section": section}, upsertUpdate(p, now), opts).Decode(&c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *mongoStore) Deactivate(ctx context.Context, section string, now time.Time) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"section": section},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound(resource)
	}
	return nil
}
