package blog

import (
	"context"
	"errors"

	"github.com/portfolio-site/core/internal/models"
	"github.com/portfolio-site/core/internal/pkg/apperror"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const resource = "Blog post"

// Store is the persistence the blog service needs.
type Store interface {
	List(ctx context.Context, f ListFilter) ([]models.Blog, int64, error)
	Featured(ctx context.Context, limit int64) ([]models.Blog, error)
	Categories(ctx context.Context) ([]CategoryCount, error)
	Tags(ctx context.Context, limit int64) ([]TagCount, error)
	FindBySlug(ctx context.Context, slug string, includeDrafts bool) (*models.Blog, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
	Related(ctx context.Context, b *models.Blog, limit int64) ([]models.Blog, error)
	SetViews(ctx context.Context, id primitive.ObjectID, views int64) error
	IncLikes(ctx context.Context, id primitive.ObjectID) (int64, error)
	Insert(ctx context.Context, b *models.Blog) error
	Replace(ctx context.Context, b *models.Blog) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore returns a Store over the blogs collection.
func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{coll: db.Collection(models.CollectionBlogs)}
}

var withoutContent = bson.M{"content": 0}

func newestFirst() bson.D {
	return bson.D{{Key: "publishedDate", Value: -1}, {Key: "_id", Value: -1}}
}

func listQuery(f ListFilter) bson.M {
	q := bson.M{}
	if !f.IncludeDrafts {
		q["published"] = true
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Tag != "" {
		q["tags"] = f.Tag
	}
	if f.Featured != nil {
		q["featured"] = *f.Featured
	}
	if f.Search != "" {
		q["$text"] = bson.M{"$search": f.Search}
	}
	return q
}

func (s *mongoStore) List(ctx context.Context, f ListFilter) ([]models.Blog, int64, error) {
	q := listQuery(f)
	dir := 1
	if f.Sort.Desc {
		dir = -1
	}
	opts := options.Find().
		SetProjection(withoutContent).
		SetSort(bson.D{{Key: f.Sort.Field, Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(f.Skip).
		SetLimit(f.Limit)

	items, err := s.find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.coll.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *mongoStore) Featured(ctx context.Context, limit int64) ([]models.Blog, error) {
	opts := options.Find().SetProjection(withoutContent).SetSort(newestFirst()).SetLimit(limit)
	return s.find(ctx, bson.M{"published": true, "featured": true}, opts)
}

func (s *mongoStore) Categories(ctx context.Context) ([]CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"published": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	out := []CategoryCount{}
	if err := s.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoStore) Tags(ctx context.Context, limit int64) ([]TagCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"published": true}}},
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
	out := []TagCount{}
	if err := s.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoStore) FindBySlug(ctx context.Context, slug string, includeDrafts bool) (*models.Blog, error) {
	q := bson.M{"slug": slug}
	if !includeDrafts {
		q["published"] = true
	}
	return s.findOne(ctx, q)
}

func (s *mongoStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *mongoStore) Related(ctx context.Context, b *models.Blog, limit int64) ([]models.Blog, error) {
	q := bson.M{
		"published": true,
		"category":  b.Category,
		"_id":       bson.M{"$ne": b.ID},
	}
	opts := options.Find().SetProjection(withoutContent).SetSort(newestFirst()).SetLimit(limit)
	return s.find(ctx, q, opts)
}

func (s *mongoStore) SetViews(ctx context.Context, id primitive.ObjectID, views int64) error {
	_, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"views": views}})
	return err
}

func (s *mongoStore) IncLikes(ctx context.Context, id primitive.ObjectID) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"likes": 1})
	var doc struct {
		Likes int64 `bson:"likes"`
	}
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"likes": 1}}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, apperror.NotFound(resource)
	}
	if err != nil {
		return 0, err
	}
	return doc.Likes, nil
}

func (s *mongoStore) Insert(ctx context.Context, b *models.Blog) error {
	res, err := s.coll.InsertOne(ctx, b)
	if mongo.IsDuplicateKeyError(err) {
		return apperror.Conflict("a blog post with slug %q", b.Slug)
	}
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		b.ID = id
	}
	return nil
}

func (s *mongoStore) Replace(ctx context.Context, b *models.Blog) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": b.ID}, b)
	if mongo.IsDuplicateKeyError(err) {
		return apperror.Conflict("a blog post with slug %q", b.Slug)
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

func (s *mongoStore) findOne(ctx context.Context, q bson.M) (*models.Blog, error) {
	var b models.Blog
	err := s.coll.FindOne(ctx, q).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NotFound(resource)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *mongoStore) find(ctx context.Context, q bson.M, opts *options.FindOptions) ([]models.Blog, error) {
	cur, err := s.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	items := []models.Blog{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *mongoStore) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}
