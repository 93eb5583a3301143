package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/portfolio-site/core/internal/config"
	"github.com/portfolio-site/core/internal/middleware"
	"github.com/portfolio-site/core/internal/modules/analytics"
	"github.com/portfolio-site/core/internal/modules/auth"
	"github.com/portfolio-site/core/internal/modules/blog"
	"github.com/portfolio-site/core/internal/modules/contact"
	"github.com/portfolio-site/core/internal/modules/content"
	"github.com/portfolio-site/core/internal/modules/project"
	"github.com/portfolio-site/core/internal/modules/skill"
	"github.com/portfolio-site/core/internal/pkg/jwt"
	"github.com/portfolio-site/core/internal/pkg/response"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	apiVersion        = "1.0.0"
	msgTooManyGeneral = "Too many requests from this IP, please try again later."
	msgTooManyContact = "Too many contact form submissions, please try again later."
)

// NewRouter builds the gin engine with the full middleware chain and every module mounted under /api.
func NewRouter(cfg *config.AppConfig, logger *zap.Logger, d Deps) (*gin.Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if d.Limits == nil {
		return nil, errors.New("rate limit store is nil")
	}
	signer, err := jwt.NewSigner(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted_proxies: %w", err)
	}

	r.Use(middleware.ErrorHandler(logger, !cfg.IsProduction()), middleware.RequestID())
	if d.Metrics != nil {
		r.Use(middleware.NewMetrics(d.Metrics).Handler())
	}
	r.Use(
		middleware.SecurityHeaders(),
		cors.New(corsConfig(cfg)),
		middleware.BodyLimit(cfg.BodyLimit),
		middleware.RateLimit(d.Limits, middleware.RateLimitOptions{
			Name:    "general",
			Max:     cfg.RateLimit.GeneralMax,
			Window:  cfg.RateLimit.GeneralWindow,
			Message: msgTooManyGeneral,
			Match:   middleware.PathPrefix("/api/"),
		}, logger),
		middleware.RateLimit(d.Limits, middleware.RateLimitOptions{
			Name:    "contact",
			Max:     cfg.RateLimit.ContactMax,
			Window:  cfg.RateLimit.ContactWindow,
			Message: msgTooManyContact,
			Match:   middleware.MethodPath(http.MethodPost, "/api/contact"),
		}, logger),
		middleware.Logger(logger),
	)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "")
	})
	r.NoMethod(func(c *gin.Context) {
		response.Fail(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.GET("/health", healthHandler(time.Now(), d.DBPing))
	r.GET("/api", func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog)
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}

	s := d.Stores
	guards := middleware.NewGuards(signer, s.Users)
	owner := contact.Owner{Email: cfg.OwnerEmail(), Name: cfg.OwnerName, SiteURL: cfg.FrontendURL}

	api := r.Group("/api")
	auth.NewHandler(auth.NewService(s.Users, signer)).RegisterRoutes(api, guards)
	blog.NewHandler(blog.NewService(s.Blog)).RegisterRoutes(api, guards)
	project.NewHandler(project.NewService(s.Projects)).RegisterRoutes(api, guards)
	skill.NewHandler(skill.NewService(s.Skills)).RegisterRoutes(api, guards)
	content.NewHandler(content.NewService(s.Content)).RegisterRoutes(api, guards)
	contact.NewHandler(contact.NewService(s.Contacts, d.Mailer, owner), logger).RegisterRoutes(api, guards)
	analytics.NewHandler(analytics.NewService(s.Analytics)).RegisterRoutes(api, guards)

	return r, nil
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	return cors.Config{
		AllowOriginFunc:  originAllowed(cfg.Origins(), cfg.IsDev()),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

func healthHandler(started time.Time, ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code, db := "OK", http.StatusOK, "connected"
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				status, code, db = "DEGRADED", http.StatusServiceUnavailable, "disconnected"
			}
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			"uptime":    time.Since(started).Seconds(),
			"database":  db,
		})
	}
}

var catalog = gin.H{
	"message": "Portfolio API",
	"version": apiVersion,
	"endpoints": gin.H{
		"health": "GET /health",
		"auth": gin.H{
			"login": "POST /api/auth/login",
			"me":    "GET /api/auth/me",
		},
		"contact": gin.H{
			"send": "POST /api/contact",
			"list": "GET /api/contact",
		},
		"projects": gin.H{
			"getAll":        "GET /api/projects",
			"getOne":        "GET /api/projects/:id",
			"getCategories": "GET /api/projects/categories/list",
			"create":        "POST /api/projects",
			"update":        "PUT /api/projects/:id",
			"delete":        "DELETE /api/projects/:id",
		},
		"blog": gin.H{
			"getAll":        "GET /api/blog",
			"getOne":        "GET /api/blog/:slug",
			"getFeatured":   "GET /api/blog/featured",
			"getCategories": "GET /api/blog/categories",
			"getTags":       "GET /api/blog/tags",
			"like":          "POST /api/blog/:id/like",
			"create":        "POST /api/blog",
			"update":        "PUT /api/blog/:id",
			"delete":        "DELETE /api/blog/:id",
		},
		"skills": gin.H{
			"getAll": "GET /api/skills",
			"update": "PUT /api/skills",
		},
		"content": gin.H{
			"getAll":  "GET /api/content",
			"getOne":  "GET /api/content/:section",
			"create":  "POST /api/content",
			"update":  "PUT /api/content/:section",
			"disable": "DELETE /api/content/:section",
		},
		"analytics": gin.H{
			"pageView": "POST /api/analytics/pageview",
			"event":    "POST /api/analytics/event",
			"getStats": "GET /api/analytics/stats",
		},
	},
}
