package database

import (
	"context"
	"fmt"

	"github.com/portfolio-site/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func asc(key string) bson.D  { return bson.D{{Key: key, Value: 1}} }
func desc(key string) bson.D { return bson.D{{Key: key, Value: -1}} }

func unique(keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
}

func plain(keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys}
}

var collectionIndexes = map[string][]mongo.IndexModel{
	models.CollectionBlogs: {
		unique(asc("slug")),
		plain(asc("category")),
		plain(bson.D{{Key: "published", Value: 1}, {Key: "publishedDate", Value: -1}}),
		plain(asc("featured")),
		plain(asc("tags")),
		plain(desc("createdAt")),
		{
			Keys: bson.D{
				{Key: "title", Value: "text"},
				{Key: "excerpt", Value: "text"},
				{Key: "content", Value: "text"},
				{Key: "tags", Value: "text"},
			},
			Options: options.Index().SetName("blog_text"),
		},
	},
	models.CollectionProjects: {
		unique(asc("slug")),
		plain(asc("category")),
		plain(asc("featured")),
		plain(asc("published")),
		plain(asc("order")),
	},
	models.CollectionSkills: {
		plain(bson.D{{Key: "category", Value: 1}, {Key: "order", Value: 1}}),
	},
	models.CollectionContents: {
		unique(asc("section")),
	},
	models.CollectionContacts: {
		plain(desc("createdAt")),
		plain(asc("email")),
		plain(asc("status")),
	},
	models.CollectionAnalytics: {
		plain(bson.D{{Key: "type", Value: 1}, {Key: "createdAt", Value: -1}}),
		plain(bson.D{{Key: "page", Value: 1}, {Key: "createdAt", Value: -1}}),
		{
			Keys:    asc("createdAt"),
			Options: options.Index().SetExpireAfterSeconds(models.AnalyticsRetentionSeconds),
		},
	},
	models.CollectionUsers: {
		unique(asc("email")),
	},
}

// EnsureIndexes creates every index the stores rely on. Existing identical indexes are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for name, indexes := range collectionIndexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
