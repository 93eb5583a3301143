package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names.
const (
	CollectionBlogs     = "blogs"
	CollectionProjects  = "projects"
	CollectionSkills    = "skills"
	CollectionContents  = "contents"
	CollectionContacts  = "contacts"
	CollectionAnalytics = "analytics"
	CollectionUsers     = "users"
)

// Base carries the id and timestamps every document has.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"     json:"updatedAt"`
}

// Touch stamps UpdatedAt, and CreatedAt on first save.
func (b *Base) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// ParseID converts a hex id. ok is false for malformed input.
func ParseID(hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
