// Command seed loads the default site content, skills and sample work into MongoDB
// and optionally creates an admin account.
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/portfolio-site/core/internal/config"
	"github.com/portfolio-site/core/internal/database"
	"github.com/portfolio-site/core/internal/models"
	"github.com/portfolio-site/core/internal/modules/auth"
	"github.com/portfolio-site/core/internal/modules/blog"
	"github.com/portfolio-site/core/internal/modules/content"
	"github.com/portfolio-site/core/internal/modules/project"
	"github.com/portfolio-site/core/internal/modules/skill"
	"github.com/portfolio-site/core/internal/pkg/apperror"
	"github.com/portfolio-site/core/internal/pkg/jwt"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yml
var defaultSeed []byte

type seedFile struct {
	Content []struct {
		Section     string                 `yaml:"section"`
		Title       string                 `yaml:"title"`
		Subtitle    string                 `yaml:"subtitle"`
		Description string                 `yaml:"description"`
		Content     map[string]interface{} `yaml:"content"`
	} `yaml:"content"`
	Skills []struct {
		Name       string `yaml:"name"`
		Category   string `yaml:"category"`
		Percentage int    `yaml:"percentage"`
		Icon       string `yaml:"icon"`
		Order      int    `yaml:"order"`
	} `yaml:"skills"`
	Projects []struct {
		Title           string   `yaml:"title"`
		Category        string   `yaml:"category"`
		Description     string   `yaml:"description"`
		LongDescription string   `yaml:"longDescription"`
		Tags            []string `yaml:"tags"`
		Technologies    []string `yaml:"technologies"`
		Featured        bool     `yaml:"featured"`
		Order           int      `yaml:"order"`
	} `yaml:"projects"`
	Blog []struct {
		Title    string   `yaml:"title"`
		Excerpt  string   `yaml:"excerpt"`
		Content  string   `yaml:"content"`
		Category string   `yaml:"category"`
		Tags     []string `yaml:"tags"`
		Featured bool     `yaml:"featured"`
	} `yaml:"blog"`
}

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	envFile := flag.String("env-file", ".env", "Optional dotenv file loaded before the config")
	adminEmail := flag.String("admin-email", "", "Create or update an admin account with this email")
	adminPassword := flag.String("admin-password", "", "Password for --admin-email")
	adminName := flag.String("admin-name", "Admin", "Display name for --admin-email")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if err := config.LoadDotEnv(*envFile); err != nil {
		logger.Warn("dotenv not loaded", zap.Error(err))
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	var data seedFile
	if err := yaml.Unmarshal(defaultSeed, &data); err != nil {
		logger.Fatal("parse seed data", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal("failed to connect", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	steps := []struct {
		name string
		run  func(context.Context, *mongo.Database, *seedFile, *zap.Logger) error
	}{
		{"content", seedContent},
		{"skills", seedSkills},
		{"projects", seedProjects},
		{"blog", seedBlog},
	}
	for _, s := range steps {
		if err := s.run(ctx, db, &data, logger); err != nil {
			logger.Fatal("seed failed", zap.String("step", s.name), zap.Error(err))
		}
	}

	if *adminEmail != "" {
		signer, err := jwt.NewSigner(cfg.JWTSecret, cfg.JWTTTL)
		if err != nil {
			logger.Fatal("jwt signer", zap.Error(err))
		}
		svc := auth.NewService(auth.NewMongoUsers(db), signer)
		u, err := svc.EnsureUser(ctx, *adminEmail, *adminName, *adminPassword, models.RoleAdmin)
		if err != nil {
			logger.Fatal("admin account", zap.Error(err))
		}
		logger.Info("admin account ready", zap.String("email", u.Email))
	}

	logger.Info("database seeded")
}

func seedContent(ctx context.Context, db *mongo.Database, data *seedFile, log *zap.Logger) error {
	svc := content.NewService(content.NewMongoStore(db))
	active := true
	for _, c := range data.Content {
		c := c
		patch := content.Patch{
			Title:       &c.Title,
			Subtitle:    &c.Subtitle,
			Description: &c.Description,
			IsActive:    &active,
		}
		if c.Content != nil {
			p := models.NewPayload(c.Content)
			patch.Content = &p
		}
		if _, err := svc.Upsert(ctx, c.Section, patch); err != nil {
			return fmt.Errorf("section %s: %w", c.Section, err)
		}
		log.Info("content section seeded", zap.String("section", c.Section))
	}
	return nil
}

func seedSkills(ctx context.Context, db *mongo.Database, data *seedFile, log *zap.Logger) error {
	inputs := make([]skill.Input, 0, len(data.Skills))
	for _, s := range data.Skills {
		pct := s.Percentage
		inputs = append(inputs, skill.Input{
			Name:       s.Name,
			Category:   s.Category,
			Percentage: &pct,
			Icon:       s.Icon,
			Order:      s.Order,
		})
	}
	saved, err := skill.NewService(skill.NewMongoStore(db)).Replace(ctx, &skill.ReplaceInput{Skills: &inputs})
	if err != nil {
		return err
	}
	log.Info("skills replaced", zap.Int("count", len(saved)))
	return nil
}

func seedProjects(ctx context.Context, db *mongo.Database, data *seedFile, log *zap.Logger) error {
	svc := project.NewService(project.NewMongoStore(db))
	for _, p := range data.Projects {
		p := p
		in := &project.Input{
			Title:        p.Title,
			Category:     p.Category,
			Description:  p.Description,
			Tags:         p.Tags,
			Technologies: &p.Technologies,
			Featured:     &p.Featured,
			Order:        &p.Order,
		}
		if p.LongDescription != "" {
			in.LongDescription = &p.LongDescription
		}
		created, err := svc.Create(ctx, in)
		if err := skipExisting(err, log, "project", p.Title); err != nil {
			return err
		}
		if created != nil {
			log.Info("project created", zap.String("slug", created.Slug))
		}
	}
	return nil
}

func seedBlog(ctx context.Context, db *mongo.Database, data *seedFile, log *zap.Logger) error {
	svc := blog.NewService(blog.NewMongoStore(db))
	published := true
	for _, b := range data.Blog {
		b := b
		created, err := svc.Create(ctx, &blog.Input{
			Title:     b.Title,
			Excerpt:   b.Excerpt,
			Content:   b.Content,
			Category:  b.Category,
			Tags:      &b.Tags,
			Published: &published,
			Featured:  &b.Featured,
		})
		if err := skipExisting(err, log, "blog post", b.Title); err != nil {
			return err
		}
		if created != nil {
			log.Info("blog post created", zap.String("slug", created.Slug))
		}
	}
	return nil
}

// skipExisting treats a slug conflict as already seeded.
func skipExisting(err error, log *zap.Logger, kind, title string) error {
	if errors.Is(err, apperror.ErrConflict) {
		log.Info(kind+" exists, skipped", zap.String("title", title))
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s %q: %w", kind, title, err)
	}
	return nil
}
