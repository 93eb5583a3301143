// Package content serves the named sections of site copy (hero, about, ...).
package content

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/portfolio-site/core/internal/middleware"
	"github.com/portfolio-site/core/internal/models"
	"github.com/portfolio-site/core/internal/pkg/apperror"
	"github.com/portfolio-site/core/internal/pkg/response"
	"github.com/portfolio-site/core/internal/pkg/validate"
)

const resource = "Content section"

// Patch holds the fields an update may set. Nil fields are left alone.
type Patch struct {
	Title       *string         `json:"title"`
	Subtitle    *string         `json:"subtitle"`
	Description *string         `json:"description"`
	Content     *models.Payload `json:"content"`
	Metadata    *models.Payload `json:"metadata"`
	IsActive    *bool           `json:"isActive"`
}

type Input struct {
	Section string `json:"section"`
	Patch
}

func (in *Input) Validate() error {
	in.Section = strings.TrimSpace(in.Section)
	return validate.Struct(in,
		validation.Field(&in.Section,
			validation.Required.Error("Section is required"),
			validate.In(models.ContentSections)),
	)
}

func (in *Input) document(now time.Time) *models.Content {
	c := &models.Content{Section: in.Section, IsActive: true}
	p := in.Patch
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Subtitle != nil {
		c.Subtitle = *p.Subtitle
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Content != nil {
		c.Content = *p.Content
	}
	if p.Metadata != nil {
		c.Metadata = *p.Metadata
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	c.Touch(now)
	return c
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service { return &Service{store: store, now: time.Now} }

func (s *Service) List(ctx context.Context) ([]models.Content, error) {
	return s.store.ListActive(ctx)
}

func (s *Service) Get(ctx context.Context, section string) (*models.Content, error) {
	if !models.IsContentSection(section) {
		return nil, apperror.NotFound(resource)
	}
	return s.store.FindActive(ctx, section)
}

func (s *Service) Create(ctx context.Context, in *Input) (*models.Content, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	doc := in.document(s.now())
	if err := s.store.Insert(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Upsert sets the given fields on section, creating it when missing.
// Passing isActive=true brings back a deactivated section.
func (s *Service) Upsert(ctx context.Context, section string, p Patch) (*models.Content, error) {
	if err := checkWritable(section); err != nil {
		return nil, err
	}
	return s.store.Upsert(ctx, section, p, s.now())
}

func (s *Service) Deactivate(ctx context.Context, section string) error {
	if err := checkWritable(section); err != nil {
		return err
	}
	return s.store.Deactivate(ctx, section, s.now())
}

func checkWritable(section string) error {
	if !models.IsContentSection(section) {
		return apperror.Invalid("section", "must be one of: "+strings.Join(models.ContentSections, ", "))
	}
	return nil
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards middleware.Guards) {
	g := rg.Group("/content")
	g.GET("", h.list)
	g.GET("/:section", h.get)

	a := g.Group("", guards.Editor()...)
	a.POST("", h.create)
	a.PUT("/:section", h.upsert)
	a.DELETE("/:section", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err, "Error fetching content")
		return
	}
	response.List(c, len(items), items)
}

func (h *Handler) get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("section"))
	if err != nil {
		response.Error(c, err, "Error fetching content")
		return
	}
	response.OK(c, item)
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadBody(c, err)
		return
	}
	item, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		response.Error(c, err, "Error creating content")
		return
	}
	response.Created(c, "Content created successfully", item)
}

func (h *Handler) upsert(c *gin.Context) {
	var p Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		response.BadBody(c, err)
		return
	}
	item, err := h.svc.Upsert(c.Request.Context(), c.Param("section"), p)
	if err != nil {
		response.Error(c, err, "Error updating content")
		return
	}
	response.Saved(c, "Content updated successfully", item)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Deactivate(c.Request.Context(), c.Param("section")); err != nil {
		response.Error(c, err, "Error deleting content")
		return
	}
	response.Message(c, http.StatusOK, "Content deleted successfully")
}
