package analytics

import (
	"context"
	"time"

	"github.com/portfolio-site/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store interface {
	Insert(ctx context.Context, ev *models.AnalyticsEvent) error
	Stats(ctx context.Context, since time.Time, topReferrers int) (*Stats, error)
}

type mongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{coll: db.Collection(models.CollectionAnalytics)}
}

func (s *mongoStore) Insert(ctx context.Context, ev *models.AnalyticsEvent) error {
	res, err := s.coll.InsertOne(ctx, ev)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		ev.ID = id
	}
	return nil
}

func countBy(field interface{}) bson.D {
	return bson.D{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}}
}

func byCountDesc() bson.D {
	return bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}}
}

// Stats computes every pageview summary for the window in one $facet pass.
func (s *mongoStore) Stats(ctx context.Context, since time.Time, topReferrers int) (*Stats, error) {
	day := bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"type":      models.EventPageview,
			"createdAt": bson.M{"$gte": since},
		}}},
		{{Key: "$facet", Value: bson.M{
			"total":  bson.A{bson.D{{Key: "$count", Value: "n"}}},
			"byPage": bson.A{countBy("$page"), byCountDesc()},
			"byDay": bson.A{
				countBy(day),
				bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
			},
			"referrers": bson.A{
				bson.D{{Key: "$match", Value: bson.M{"referrer": bson.M{"$ne": models.DirectReferrer}}}},
				countBy("$referrer"),
				byCountDesc(),
				bson.D{{Key: "$limit", Value: topReferrers}},
			},
		}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Total []struct {
			N int64 `bson:"n"`
		} `bson:"total"`
		ByPage    []Bucket `bson:"byPage"`
		ByDay     []Bucket `bson:"byDay"`
		Referrers []Bucket `bson:"referrers"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	st := &Stats{ViewsByPage: []Bucket{}, ViewsByDay: []Bucket{}, TopReferrers: []Bucket{}}
	if len(rows) == 0 {
		return st, nil
	}
	row := rows[0]
	if len(row.Total) > 0 {
		st.TotalViews = row.Total[0].N
	}
	if row.ByPage != nil {
		st.ViewsByPage = row.ByPage
	}
	if row.ByDay != nil {
		st.ViewsByDay = row.ByDay
	}
	if row.Referrers != nil {
		st.TopReferrers = row.Referrers
	}
	return st, nil
}
