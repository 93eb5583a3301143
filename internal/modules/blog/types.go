package blog

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/portfolio-site/core/internal/models"
	"github.com/portfolio-site/core/internal/pkg/apperror"
	"github.com/portfolio-site/core/internal/pkg/validate"
)

const (
	defaultListLimit     = 10
	defaultFeaturedLimit = 3
	defaultTagsLimit     = 20
	relatedLimit         = 3
	defaultSort          = "-publishedDate"
)

var sortableFields = []string{"publishedDate", "createdAt", "updatedAt", "views", "likes", "title", "readTime"}

// Input is the body accepted by create and update. Optional fields left out
// of an update keep their stored value.
type Input struct {
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Excerpt       string         `json:"excerpt"`
	Content       string         `json:"content"`
	Category      string         `json:"category"`
	Tags          *[]string      `json:"tags"`
	FeaturedImage *string        `json:"featuredImage"`
	Author        *models.Author `json:"author"`
	Published     *bool          `json:"published"`
	Featured      *bool          `json:"featured"`
	SEO           *models.SEO    `json:"seo"`
}

func (in *Input) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Content = strings.TrimSpace(in.Content)
	in.Category = strings.TrimSpace(in.Category)
	if in.Tags != nil {
		tags := make([]string, 0, len(*in.Tags))
		for _, t := range *in.Tags {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		in.Tags = &tags
	}
}

// Validate trims the input and checks every rule, reporting all failures at once.
func (in *Input) Validate() error {
	in.normalize()
	return validate.Struct(in,
		validation.Field(&in.Title,
			validation.Required.Error("Title must be between 5 and 200 characters"),
			validation.RuneLength(5, 200).Error("Title must be between 5 and 200 characters")),
		validation.Field(&in.Excerpt,
			validation.Required.Error("Excerpt must be between 10 and 300 characters"),
			validation.RuneLength(10, 300).Error("Excerpt must be between 10 and 300 characters")),
		validation.Field(&in.Content,
			validation.Required.Error("Content must be at least 100 characters"),
			validation.RuneLength(100, 0).Error("Content must be at least 100 characters")),
		validation.Field(&in.Category,
			validation.Required.Error("Category is required"),
			validate.In(models.BlogCategories)),
	)
}

// apply copies the input onto b. b is a fresh post on create and a copy of
// the stored one on update.
func (in *Input) apply(b *models.Blog) {
	b.Title = in.Title
	b.Slug = in.Slug
	b.Excerpt = in.Excerpt
	b.Content = in.Content
	b.Category = in.Category
	if in.Tags != nil {
		b.Tags = *in.Tags
	}
	if in.FeaturedImage != nil {
		b.FeaturedImage = strings.TrimSpace(*in.FeaturedImage)
	}
	if in.Author != nil {
		b.Author = *in.Author
	}
	if in.Published != nil {
		b.Published = *in.Published
	}
	if in.Featured != nil {
		b.Featured = *in.Featured
	}
	if in.SEO != nil {
		b.SEO = *in.SEO
	}
}

// Sort is a single-key ordering.
type Sort struct {
	Field string
	Desc  bool
}

// ParseSort reads "field" or "-field". Unknown fields are a validation error.
func ParseSort(raw string) (Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = defaultSort
	}
	s := Sort{Field: raw}
	if strings.HasPrefix(raw, "-") {
		s = Sort{Field: raw[1:], Desc: true}
	}
	if !models.IsOneOf(s.Field, sortableFields) {
		return Sort{}, apperror.Invalid("sort", "sort must be one of: "+strings.Join(sortableFields, ", ")+" (prefix with - for descending)")
	}
	return s, nil
}

// ListFilter selects posts for the list endpoint.
type ListFilter struct {
	Category      string
	Tag           string
	Featured      *bool
	Search        string
	IncludeDrafts bool
	Sort          Sort
	Skip          int64
	Limit         int64
}

// CategoryCount is one row of the categories summary.
type CategoryCount struct {
	Category string `json:"category" bson:"_id"`
	Count    int64  `json:"count"    bson:"count"`
}

// TagCount is one row of the tags summary.
type TagCount struct {
	Tag   string `json:"tag"   bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// Detail is a post together with its related posts.
type Detail struct {
	Post    *models.Blog
	Related []models.Blog
}

type clock func() time.Time
