package project

import (
	"context"
	"errors"
	"sort"

	"github.com/portfolio-site/core/internal/models"
	"github.com/portfolio-site/core/internal/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const resource = "Project"

type Store interface {
	List(ctx context.Context, f ListFilter) ([]models.Project, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	FindBySlug(ctx context.Context, slug string) (*models.Project, error)
	Categories(ctx context.Context) ([]string, error)
	SetViews(ctx context.Context, id primitive.ObjectID, views int64) error
	Insert(ctx context.Context, p *models.Project) error
	Replace(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{coll: db.Collection(models.CollectionProjects)}
}

func (s *mongoStore) List(ctx context.Context, f ListFilter) ([]models.Project, int64, error) {
	q := bson.M{}
	if !f.IncludeDrafts {
		q["published"] = true
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Featured != nil {
		q["featured"] = *f.Featured
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: -1}}).
		SetSkip(f.Skip).
		SetLimit(f.Limit)
	cur, err := s.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}
	items := []models.Project{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	total, err := s.coll.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *mongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *mongoStore) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	return s.findOne(ctx, bson.M{"slug": slug})
}

func (s *mongoStore) Categories(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if c, ok := v.(string); ok {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *mongoStore) SetViews(ctx context.Context, id primitive.ObjectID, views int64) error {
	_, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"views": views}})
	return err
}

func (s *mongoStore) Insert(ctx context.Context, p *models.Project) error {
	res, err := s.coll.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return apperror.Conflict("a project with slug %q", p.Slug)
	}
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

func (s *mongoStore) Replace(ctx context.Context, p *models.Project) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if mongo.IsDuplicateKeyError(err) {
		return apperror.Conflict("a project with slug %q", p.Slug)
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound(resource)
	}
	return nil
}

func (s *mongoStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound(resource)
	}
	return nil
}

func (s *mongoStore) findOne(ctx context.Context, q bson.M) (*models.Project, error) {
	var p models.Project
	err := s.coll.FindOne(ctx, q).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound(resource)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
