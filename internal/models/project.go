package models

import "time"

// Project is a portfolio entry.
type Project struct {
	Base            `bson:",inline"`
	Title           string     `bson:"title"                   json:"title"`
	Slug            string     `bson:"slug"                    json:"slug"`
	Category        string     `bson:"category"                json:"category"`
	Description     string     `bson:"description"             json:"description"`
	LongDescription string     `bson:"longDescription"         json:"longDescription"`
	Image           string     `bson:"image"                   json:"image"`
	Images          []string   `bson:"images"                  json:"images"`
	Tags            []string   `bson:"tags"                    json:"tags"`
	Technologies    []string   `bson:"technologies"            json:"technologies"`
	LiveURL         string     `bson:"liveUrl,omitempty"       json:"liveUrl,omitempty"`
	GithubURL       string     `bson:"githubUrl,omitempty"     json:"githubUrl,omitempty"`
	Featured        bool       `bson:"featured"                json:"featured"`
	Published       bool       `bson:"published"               json:"published"`
	Order           int        `bson:"order"                   json:"order"`
	Views           int64      `bson:"views"                   json:"views"`
	Likes           int64      `bson:"likes"                   json:"likes"`
	CompletedDate   *time.Time `bson:"completedDate,omitempty" json:"completedDate,omitempty"`
	Client          *Client    `bson:"client,omitempty"        json:"client,omitempty"`
}

type Client struct {
	Name        string `bson:"name,omitempty"        json:"name,omitempty"`
	Website     string `bson:"website,omitempty"     json:"website,omitempty"`
	Testimonial string `bson:"testimonial,omitempty" json:"testimonial,omitempty"`
}

// ApplyDerived fills the slug and carries stored counters over on update.
// The slug comes from the title only on first save.
func (p *Project) ApplyDerived(prev *Project, now time.Time) {
	switch {
	case p.Slug != "":
		p.Slug = Slugify(p.Slug)
	case prev != nil:
		p.Slug = prev.Slug
	default:
		p.Slug = Slugify(p.Title)
	}

	for _, s := range []*[]string{&p.Images, &p.Tags, &p.Technologies} {
		if *s == nil {
			*s = []string{}
		}
	}
	if prev != nil {
		p.ID = prev.ID
		p.CreatedAt = prev.CreatedAt
		p.Views = prev.Views
		p.Likes = prev.Likes
	}
	p.Slug = slugOrID(p.Slug, &p.ID)
	p.Touch(now)
}
