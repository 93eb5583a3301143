package project

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/portfolio-site/core/internal/models"
	"github.com/portfolio-site/core/internal/pkg/validate"
)

const defaultListLimit = 20

// Input is the create/update body. Pointer fields left out of an update keep
// their stored value.
type Input struct {
	Title           string         `json:"title"`
	Slug            string         `json:"slug"`
	Category        string         `json:"category"`
	Description     string         `json:"description"`
	LongDescription *string        `json:"longDescription"`
	Image           *string        `json:"image"`
	Images          *[]string      `json:"images"`
	Tags            []string       `json:"tags"`
	Technologies    *[]string      `json:"technologies"`
	LiveURL         *string        `json:"liveUrl"`
	GithubURL       *string        `json:"githubUrl"`
	Featured        *bool          `json:"featured"`
	Published       *bool          `json:"published"`
	Order           *int           `json:"order"`
	CompletedDate   *time.Time     `json:"completedDate"`
	Client          *models.Client `json:"client"`
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (in *Input) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	if in.Tags != nil {
		in.Tags = trimAll(in.Tags)
	}
	if in.LongDescription != nil {
		v := strings.TrimSpace(*in.LongDescription)
		in.LongDescription = &v
	}
}

func (in *Input) Validate() error {
	in.normalize()
	return validate.Struct(in,
		validation.Field(&in.Title,
			validation.Required.Error("Title must be between 3 and 100 characters"),
			validation.RuneLength(3, 100).Error("Title must be between 3 and 100 characters")),
		validation.Field(&in.Category,
			validation.Required.Error("Category is required"),
			validate.In(models.ProjectCategories)),
		validation.Field(&in.Description,
			validation.Required.Error("Description must be between 10 and 500 characters"),
			validation.RuneLength(10, 500).Error("Description must be between 10 and 500 characters")),
		validation.Field(&in.Tags,
			validation.Required.Error("At least one tag is required")),
		validation.Field(&in.LongDescription,
			validation.RuneLength(0, 2000).Error("Long description cannot be more than 2000 characters")),
	)
}

func (in *Input) apply(p *models.Project) {
	p.Title = in.Title
	p.Slug = in.Slug
	p.Category = in.Category
	p.Description = in.Description
	p.Tags = in.Tags
	if in.LongDescription != nil {
		p.LongDescription = *in.LongDescription
	}
	if in.Image != nil {
		p.Image = strings.TrimSpace(*in.Image)
	}
	if in.Images != nil {
		p.Images = trimAll(*in.Images)
	}
	if in.Technologies != nil {
		p.Technologies = trimAll(*in.Technologies)
	}
	if in.LiveURL != nil {
		p.LiveURL = strings.TrimSpace(*in.LiveURL)
	}
	if in.GithubURL != nil {
		p.GithubURL = strings.TrimSpace(*in.GithubURL)
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.Published != nil {
		p.Published = *in.Published
	}
	if in.Order != nil {
		p.Order = *in.Order
	}
	if in.CompletedDate != nil {
		p.CompletedDate = in.CompletedDate
	}
	if in.Client != nil {
		p.Client = in.Client
	}
}

// ListFilter selects projects for the list endpoint.
type ListFilter struct {
	Category      string
	Featured      *bool
	IncludeDrafts bool
	Skip          int64
	Limit         int64
}
