package models

import "time"

// DefaultAuthorName is used when a post is saved without an author.
const DefaultAuthorName = "Site Owner"

// Blog is a blog post. Content is markdown.
type Blog struct {
	Base          `bson:",inline"`
	Title         string     `bson:"title"                   json:"title"`
	Slug          string     `bson:"slug"                    json:"slug"`
	Excerpt       string     `bson:"excerpt"                 json:"excerpt"`
	Content       string     `bson:"content,omitempty"       json:"content,omitempty"`
	ContentHTML   string     `bson:"-"                       json:"contentHtml,omitempty"`
	Category      string     `bson:"category"                json:"category"`
	Tags          []string   `bson:"tags"                    json:"tags"`
	FeaturedImage string     `bson:"featuredImage"           json:"featuredImage"`
	Author        Author     `bson:"author"                  json:"author"`
	ReadTime      int        `bson:"readTime"                json:"readTime"`
	Published     bool       `bson:"published"               json:"published"`
	Featured      bool       `bson:"featured"                json:"featured"`
	PublishedDate *time.Time `bson:"publishedDate,omitempty" json:"publishedDate,omitempty"`
	Views         int64      `bson:"views"                   json:"views"`
	Likes         int64      `bson:"likes"                   json:"likes"`
	Comments      []Comment  `bson:"comments"                json:"comments"`
	SEO           SEO        `bson:"seo"                     json:"seo"`
}

type Author struct {
	Name   string `bson:"name"             json:"name"`
	Bio    string `bson:"bio,omitempty"    json:"bio,omitempty"`
	Avatar string `bson:"avatar,omitempty" json:"avatar,omitempty"`
}

type Comment struct {
	Author    string    `bson:"author"    json:"author"`
	Email     string    `bson:"email"     json:"email"`
	Content   string    `bson:"content"   json:"content"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	Approved  bool      `bson:"approved"  json:"approved"`
}

type SEO struct {
	MetaTitle       string   `bson:"metaTitle,omitempty"       json:"metaTitle,omitempty"`
	MetaDescription string   `bson:"metaDescription,omitempty" json:"metaDescription,omitempty"`
	Keywords        []string `bson:"keywords,omitempty"        json:"keywords,omitempty"`
	OGImage         string   `bson:"ogImage,omitempty"         json:"ogImage,omitempty"`
}

// ApplyDerived fills the fields computed from others before a write.
// prev is the stored version on update and nil on create.
func (b *Blog) ApplyDerived(prev *Blog, now time.Time) {
	switch {
	case b.Slug != "":
		b.Slug = Slugify(b.Slug)
	case prev != nil:
		b.Slug = prev.Slug
	default:
		b.Slug = Slugify(b.Title)
	}
	b.Slug = slugOrID(b.Slug, &b.ID)

	b.ReadTime = ReadTime(b.Content)
	if b.ReadTime < 1 {
		b.ReadTime = 1
	}

	var current *time.Time
	if prev != nil {
		current = prev.PublishedDate
	}
	b.PublishedDate = stampPublished(b.Published, current, now)

	if b.Author.Name == "" {
		b.Author.Name = DefaultAuthorName
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.Comments == nil {
		b.Comments = []Comment{}
	}
	if prev != nil {
		b.ID = prev.ID
		b.CreatedAt = prev.CreatedAt
		b.Views = prev.Views
		b.Likes = prev.Likes
		b.Comments = prev.Comments
	}
	b.Touch(now)
}

// URL is the public path of the post.
func (b *Blog) URL() string {
	return "/blog/" + b.Slug
}
