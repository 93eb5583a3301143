package models

import (
	"math"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const wordsPerMinute = 200

var (
	slugStrip  = regexp.MustCompile(`[^a-z0-9_\s-]`)
	slugSpaces = regexp.MustCompile(`\s+`)
	slugDashes = regexp.MustCompile(`-{2,}`)
)

// Slugify lowercases s, drops characters outside [a-z0-9_ -], turns whitespace runs
// into hyphens and collapses repeated hyphens.
func Slugify(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugSpaces.ReplaceAllString(slug, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// slugOrID returns slug, or the document id in hex when slug is empty (a title
// with no ASCII letters or digits). A missing id is assigned here so the slug
// matches the stored _id.
func slugOrID(slug string, id *primitive.ObjectID) string {
	if slug != "" {
		return slug
	}
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
	return id.Hex()
}

// ReadTime estimates minutes to read content at 200 words per minute, rounded up.
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

// stampPublished returns the publish date to store: an existing date is never replaced,
// and a new one is only set when the document is published.
func stampPublished(published bool, current *time.Time, now time.Time) *time.Time {
	if current != nil || !published {
		return current
	}
	t := now
	return &t
}
