package skill

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/portfolio-site/core/internal/middleware"
	"github.com/portfolio-site/core/internal/models"
	"github.com/portfolio-site/core/internal/pkg/apperror"
	"github.com/portfolio-site/core/internal/pkg/response"
	"github.com/portfolio-site/core/internal/pkg/validate"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Input struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	Percentage *int   `json:"percentage"`
	Icon       string `json:"icon"`
	Order      int    `json:"order"`
}

func (in *Input) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Icon = strings.TrimSpace(in.Icon)
	return validation.ValidateStruct(in,
		validation.Field(&in.Name,
			validation.Required.Error("Skill name is required"),
			validation.RuneLength(1, 50).Error("Skill name cannot be more than 50 characters")),
		validation.Field(&in.Category,
			validation.Required.Error("Category is required"),
			validate.In(models.SkillCategories)),
		validation.Field(&in.Percentage,
			validation.NotNil.Error("Percentage is required"),
			validation.Min(0).Error("Percentage must be between 0 and 100"),
			validation.Max(100).Error("Percentage must be between 0 and 100")),
	)
}

// ReplaceInput is the bulk body. Skills is a pointer so a missing key can be
// told apart from an empty list.
type ReplaceInput struct {
	Skills *[]Input `json:"skills"`
}

// Validate checks every entry; field names are reported as skills[i].field.
func (in *ReplaceInput) Validate() error {
	if in.Skills == nil {
		return apperror.Invalid("skills", "Skills must be an array")
	}
	errs := validation.Errors{}
	for i := range *in.Skills {
		if err := (*in.Skills)[i].Validate(); err != nil {
			errs[strconv.Itoa(i)] = err
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return validate.Wrap("skills", errs)
}

type Store interface {
	List(ctx context.Context, category string) ([]models.Skill, error)
	ReplaceAll(ctx context.Context, skills []models.Skill) ([]models.Skill, error)
}

type mongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{coll: db.Collection(models.CollectionSkills)}
}

func (s *mongoStore) List(ctx context.Context, category string) ([]models.Skill, error) {
	q := bson.M{}
	if category != "" {
		q["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "order", Value: 1}})
	cur, err := s.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	out := []models.Skill{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceAll empties the collection and inserts skills. The two steps are not
// atomic; a failed insert leaves the collection empty.
func (s *mongoStore) ReplaceAll(ctx context.Context, skills []models.Skill) ([]models.Skill, error) {
	if _, err := s.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return nil, err
	}
	if len(skills) == 0 {
		return []models.Skill{}, nil
	}
	docs := make([]interface{}, len(skills))
	for i := range skills {
		docs[i] = skills[i]
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return s.List(ctx, "")
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service { return &Service{store: store, now: time.Now} }

func (s *Service) List(ctx context.Context, category string) ([]models.Skill, error) {
	return s.store.List(ctx, category)
}

// Replace validates the whole set before touching storage.
func (s *Service) Replace(ctx context.Context, in *ReplaceInput) ([]models.Skill, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	now := s.now()
	skills := make([]models.Skill, len(*in.Skills))
	for i, item := range *in.Skills {
		skills[i] = models.Skill{
			Name:       item.Name,
			Category:   item.Category,
			Percentage: *item.Percentage,
			Icon:       item.Icon,
			Order:      item.Order,
		}
		skills[i].Touch(now)
	}
	return s.store.ReplaceAll(ctx, skills)
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards middleware.Guards) {
	g := rg.Group("/skills")
	g.GET("", h.list)
	g.PUT("", append(guards.Editor(), h.replace)...)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), strings.TrimSpace(c.Query("category")))
	if err != nil {
		response.Error(c, err, "Error fetching skills")
		return
	}
	response.List(c, len(items), items)
}

func (h *Handler) replace(c *gin.Context) {
	var in ReplaceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadBody(c, err)
		return
	}
	items, err := h.svc.Replace(c.Request.Context(), &in)
	if err != nil {
		response.Error(c, err, "Error updating skills")
		return
	}
	response.Saved(c, "Skills updated successfully", items)
}
