package blog

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-site/core/internal/middleware"
	"github.com/portfolio-site/core/internal/pkg/pagination"
	"github.com/portfolio-site/core/internal/pkg/response"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards middleware.Guards) {
	g := rg.Group("/blog")
	// gin allows one wildcard name per segment, so :slug carries the id on the write routes.
	g.GET("", guards.Optional, h.list)
	g.GET("/featured", h.featured)
	g.GET("/categories", h.categories)
	g.GET("/tags", h.tags)
	g.GET("/:slug", guards.Optional, h.get)
	g.POST("/:slug/like", h.like)

	a := g.Group("", guards.Editor()...)
	a.POST("", h.create)
	a.PUT("/:slug", h.update)
	a.DELETE("/:slug", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	sort, err := ParseSort(c.Query("sort"))
	if err != nil {
		response.Error(c, err, "")
		return
	}
	q := pagination.FromContext(c, defaultListLimit)
	f := ListFilter{
		Category:      strings.TrimSpace(c.Query("category")),
		Tag:           strings.TrimSpace(c.Query("tag")),
		Search:        strings.TrimSpace(c.Query("search")),
		IncludeDrafts: c.Query("drafts") == "true" && middleware.IsEditor(c),
		Sort:          sort,
		Skip:          q.Skip(),
		Limit:         int64(q.Limit),
	}
	if v := c.Query("featured"); v != "" {
		featured := v == "true"
		f.Featured = &featured
	}

	items, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err, "Error fetching blog posts")
		return
	}
	response.Paged(c, items, q.Meta(total, len(items)))
}

func (h *Handler) featured(c *gin.Context) {
	limit := boundedLimit(c.Query("limit"), defaultFeaturedLimit)
	items, err := h.svc.Featured(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err, "Error fetching featured blog posts")
		return
	}
	response.List(c, len(items), items)
}

func (h *Handler) categories(c *gin.Context) {
	items, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err, "Error fetching categories")
		return
	}
	response.List(c, len(items), items)
}

func (h *Handler) tags(c *gin.Context) {
	limit := boundedLimit(c.Query("limit"), defaultTagsLimit)
	items, err := h.svc.Tags(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err, "Error fetching tags")
		return
	}
	response.List(c, len(items), items)
}

func (h *Handler) get(c *gin.Context) {
	drafts := middleware.IsEditor(c)
	d, err := h.svc.View(c.Request.Context(), c.Param("slug"), drafts)
	if err != nil {
		response.Error(c, err, "Error fetching blog post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": d.Post, "related": d.Related})
}

func (h *Handler) like(c *gin.Context) {
	likes, err := h.svc.Like(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err, "Error liking blog post")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "likes": likes})
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadBody(c, err)
		return
	}
	post, err := h.svc.Create(c.Request.Context(), &in)
	if err != nil {
		response.Error(c, err, "Error creating blog post")
		return
	}
	response.Created(c, "Blog post created successfully", post)
}

func (h *Handler) update(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadBody(c, err)
		return
	}
	post, err := h.svc.Update(c.Request.Context(), c.Param("slug"), &in)
	if err != nil {
		response.Error(c, err, "Error updating blog post")
		return
	}
	response.Saved(c, "Blog post updated successfully", post)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		response.Error(c, err, "Error deleting blog post")
		return
	}
	response.Message(c, http.StatusOK, "Blog post deleted successfully")
}

func boundedLimit(raw string, def int) int64 {
	n := pagination.ParseIntOr(raw, def)
	if n < 1 {
		n = def
	}
	if n > pagination.MaxLimit {
		n = pagination.MaxLimit
	}
	return int64(n)
}
