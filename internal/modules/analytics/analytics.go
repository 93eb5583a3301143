package analytics

import (
	"context"
	"errors"
	"io"
	"net/http"
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
)

const (
	defaultDays     = 30
	maxDays         = 365
	topReferrersMax = 10
)

type EventInput struct {
	Type      string          `json:"type"`
	Page      string          `json:"page"`
	Referrer  string          `json:"referrer"`
	SessionID string          `json:"sessionId"`
	Metadata  *models.Payload `json:"metadata"`
}

func (in *EventInput) Validate() error {
	in.Type = strings.TrimSpace(in.Type)
	return validate.Struct(in,
		validation.Field(&in.Type,
			validation.Required.Error("Event type is required"),
			validate.In(models.EventTypes)),
	)
}

// Bucket is one grouped count. Key is a page, a day (YYYY-MM-DD) or a referrer.
type Bucket struct {
	Key   string `json:"_id"   bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

type Stats struct {
	TotalViews   int64    `json:"totalViews"`
	ViewsByPage  []Bucket `json:"viewsByPage"`
	ViewsByDay   []Bucket `json:"viewsByDay"`
	TopReferrers []Bucket `json:"topReferrers"`
}

// normalizePage drops the query string and fragment so views of one page group together.
func normalizePage(raw string) string {
	p := strings.TrimSpace(raw)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") && !strings.Contains(p, "://") {
		return "/" + p
	}
	return p
}

func normalizeReferrer(raw string) string {
	r := strings.TrimSpace(raw)
	if r == "" {
		return models.DirectReferrer
	}
	return r
}

// ParseDays reads the stats window. Empty means 30; anything outside 1..365 is rejected.
func ParseDays(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultDays, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxDays {
		return 0, apperror.Invalid("days", "days must be an integer between 1 and 365")
	}
	return n, nil
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service { return &Service{store: store, now: time.Now} }

// Track stores one event stamped with the caller's address and user agent.
func (s *Service) Track(ctx context.Context, in *EventInput, ip, userAgent string) (*models.AnalyticsEvent, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	ev := &models.AnalyticsEvent{
		Type:      in.Type,
		Page:      normalizePage(in.Page),
		Referrer:  normalizeReferrer(in.Referrer),
		IPAddress: ip,
		UserAgent: userAgent,
		SessionID: strings.TrimSpace(in.SessionID),
	}
	if in.Metadata != nil {
		ev.Metadata = *in.Metadata
	}
	ev.Touch(s.now())
	if err := s.store.Insert(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (s *Service) Stats(ctx context.Context, days int) (*Stats, error) {
	since := s.now().AddDate(0, 0, -days)
	return s.store.Stats(ctx, since, topReferrersMax)
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards middleware.Guards) {
	g := rg.Group("/analytics")
	g.POST("/pageview", h.pageview)
	g.POST("/event", h.event)
	g.GET("/stats", append(guards.Admin(), h.stats)...)
}

func (h *Handler) pageview(c *gin.Context) {
	var in EventInput
	if err := bindOptional(c, &in); err != nil {
		response.BadBody(c, err)
		return
	}
	in.Type = models.EventPageview
	if _, err := h.svc.Track(c.Request.Context(), &in, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err, "Error tracking page view")
		return
	}
	response.Message(c, http.StatusCreated, "Page view tracked")
}

func (h *Handler) event(c *gin.Context) {
	var in EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadBody(c, err)
		return
	}
	if _, err := h.svc.Track(c.Request.Context(), &in, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err, "Error tracking event")
		return
	}
	response.Message(c, http.StatusCreated, "Event tracked")
}

func (h *Handler) stats(c *gin.Context) {
	days, err := ParseDays(c.Query("days"))
	if err != nil {
		response.Error(c, err, "")
		return
	}
	st, err := h.svc.Stats(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err, "Error fetching analytics")
		return
	}
	response.OK(c, st)
}

// bindOptional decodes a JSON body when one is present. A pageview beacon may be sent empty.
func bindOptional(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
