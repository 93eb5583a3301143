package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-site/core/internal/config"
	"github.com/portfolio-site/core/internal/database"
	"github.com/portfolio-site/core/internal/modules/analytics"
	"github.com/portfolio-site/core/internal/modules/auth"
	"github.com/portfolio-site/core/internal/modules/blog"
	"github.com/portfolio-site/core/internal/modules/contact"
	"github.com/portfolio-site/core/internal/modules/content"
	"github.com/portfolio-site/core/internal/modules/project"
	"github.com/portfolio-site/core/internal/modules/skill"
	"github.com/portfolio-site/core/internal/pkg/limiter"
	"github.com/portfolio-site/core/internal/pkg/mail"
	pkgredis "github.com/portfolio-site/core/internal/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	mongo  *mongo.Client
	redis  *pkgredis.Client
	logger *zap.Logger
}

// Stores bundles the persistence of every module.
type Stores struct {
	Blog      blog.Store
	Projects  project.Store
	Skills    skill.Store
	Content   content.Store
	Contacts  contact.Store
	Analytics analytics.Store
	Users     auth.Users
}

// MongoStores backs every module with collections of db.
func MongoStores(db *mongo.Database) Stores {
	return Stores{
		Blog:      blog.NewMongoStore(db),
		Projects:  project.NewMongoStore(db),
		Skills:    skill.NewMongoStore(db),
		Content:   content.NewMongoStore(db),
		Contacts:  contact.NewMongoStore(db),
		Analytics: analytics.NewMongoStore(db),
		Users:     auth.NewMongoUsers(db),
	}
}

// Deps is what the router needs from the outside world.
type Deps struct {
	Stores  Stores
	Mailer  contact.Mailer
	Limits  limiter.Store
	Metrics *prometheus.Registry
	// DBPing reports database reachability for /health. Nil means always reachable.
	DBPing func(ctx context.Context) error
}

// New initializes the application: config → Mongo → Redis → routes.
func New(ctx context.Context, logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	client, db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to mongo", zap.String("database", cfg.Mongo.Database))
	if err := database.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	a := &App{cfg: cfg, mongo: client, logger: logger}

	var limits limiter.Store = limiter.NewMemoryStore()
	if cfg.RedisURL != "" {
		rc, err := pkgredis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, rate limits are per process", zap.Error(err))
		} else {
			a.redis = rc
			limits = limiter.NewRedisStore(rc, "portfolio:ratelimit:")
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router, err := NewRouter(cfg, logger, Deps{
		Stores:  MongoStores(db),
		Mailer:  mail.New(mailConfig(cfg.Mail)),
		Limits:  limits,
		Metrics: reg,
		DBPing: func(ctx context.Context) error {
			return database.Ping(ctx, client, healthPingTimeout)
		},
	})
	if err != nil {
		_ = a.Shutdown(context.Background())
		return nil, err
	}
	a.router = router
	return a, nil
}

func mailConfig(c config.MailConfig) mail.Config {
	return mail.Config{
		Enable:    c.Enable,
		Host:      c.Host,
		Port:      c.Port,
		User:      c.User,
		Pass:      c.Pass,
		From:      c.From,
		ResendKey: c.ResendKey,
	}
}

// Addr returns the listen address.
func (a *App) Addr() string {
	return a.cfg.Addr()
}

// Router returns the gin engine.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Shutdown releases database and cache connections.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("disconnect mongo: %w", err))
		}
	}
	return errors.Join(errs...)
}
