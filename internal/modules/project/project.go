package project

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-site/core/internal/middleware"
	"github.com/portfolio-site/core/internal/models"
	"github.com/portfolio-site/core/internal/pkg/apperror"
	"github.com/portfolio-site/core/internal/pkg/pagination"
	"github.com/portfolio-site/core/internal/pkg/response"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service { return &Service{store: store, now: time.Now} }

func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Project, int64, error) {
	return s.store.List(ctx, f)
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.store.Categories(ctx)
}

// View resolves key as an id first and a slug second, then counts the view.
// Unpublished projects are only visible to editors.
func (s *Service) View(ctx context.Context, key string, includeDrafts bool) (*models.Project, error) {
	p, err := s.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if !p.Published && !includeDrafts {
		return nil, apperror.NotFound(resource)
	}

	p.Views++
	if err := s.store.SetViews(ctx, p.ID, p.Views); err != nil {
		return nil, fmt.Errorf("count view: %w", err)
	}
	return p, nil
}

func (s *Service) lookup(ctx context.Context, key string) (*models.Project, error) {
	if oid, ok := models.ParseID(key); ok {
		p, err := s.store.FindByID(ctx, oid)
		if err == nil || !errors.Is(err, apperror.ErrNotFound) {
			return p, err
		}
	}
	return s.store.FindBySlug(ctx, key)
}

func (s *Service) Create(ctx context.Context, in *Input) (*models.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	p := &models.Project{Published: true}
	in.apply(p)
	p.ApplyDerived(nil, s.now())
	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in *Input) (*models.Project, error) {
	oid, ok := models.ParseID(id)
	if !ok {
		return nil, apperror.NotFound(resource)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	prev, err := s.store.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	next := *prev
	in.apply(&next)
	next.ApplyDerived(prev, s.now())
	if err := s.store.Replace(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	oid, ok := models.ParseID(id)
	if !ok {
		return apperror.NotFound(resource)
	}
	return s.store.Delete(ctx, oid)
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards middleware.Guards) {
	g := rg.Group("/projects")
	g.GET("", guards.Optional, h.list)
	g.GET("/categories/list", h.categories)
	g.GET("/:id", guards.Optional, h.get)

	a := g.Group("", guards.Editor()...)
	a.POST("", h.create)
	a.PUT("/:id", h.update)
	a.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c, defaultListLimit)
	f := ListFilter{
		Category:      strings.TrimSpace(c.Query("category")),
		IncludeDrafts: c.Query("drafts") == "true" && middleware.IsEditor(c),
		Skip:          q.Skip(),
		Limit:         int64(q.Limit),
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		f.Featured = &featured
	}

	items, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err, "Error fetching projects")
		return
	}
	response.Paged(c, items, q.Meta(total, len(items)))
}

func (h *Handler) categories(c *gin.Context) {
	items, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err, "Error fetching categories")
		return
	}
	response.List(c, len(items), items)
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.View(c.Request.Context(), c.Param("id"), middleware.IsEditor(c))
	if err != nil {
		response.Error(c, err, "Error fetching project")
		return
	}
	response.OK(c, p)
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadBody(c, err)
		return
	}
	p, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		response.Error(c, err, "Error creating project")
		return
	}
	response.Created(c, "Project created successfully", p)
}

func (h *Handler) update(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadBody(c, err)
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		response.Error(c, err, "Error updating project")
		return
	}
	response.Saved(c, "Project updated successfully", p)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err, "Error deleting project")
		return
	}
	response.Message(c, http.StatusOK, "Project deleted successfully")
}
