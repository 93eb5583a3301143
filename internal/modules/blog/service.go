package blog

import (
	"context"
	"fmt"
	"time"

	"github.com/portfolio-site/core/internal/models"
	"github.com/portfolio-site/core/internal/pkg/apperror"
	"github.com/portfolio-site/core/internal/pkg/markdown"
)

type Service struct {
	store Store
	now   clock
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Blog, int64, error) {
	return s.store.List(ctx, f)
}

func (s *Service) Featured(ctx context.Context, limit int64) ([]models.Blog, error) {
	return s.store.Featured(ctx, limit)
}

func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	return s.store.Categories(ctx)
}

func (s *Service) Tags(ctx context.Context, limit int64) ([]TagCount, error) {
	return s.store.Tags(ctx, limit)
}

// View loads a post by slug, counts the view and attaches related posts and
// rendered HTML. The view count is read, bumped and written back, so
// concurrent readers may lose increments.
func (s *Service) View(ctx context.Context, slug string, includeDrafts bool) (*Detail, error) {
	post, err := s.store.FindBySlug(ctx, slug, includeDrafts)
	if err != nil {
		return nil, err
	}

	post.Views++
	if err := s.store.SetViews(ctx, post.ID, post.Views); err != nil {
		return nil, fmt.Errorf("count view: %w", err)
	}

	related, err := s.store.Related(ctx, post, relatedLimit)
	if err != nil {
		return nil, fmt.Errorf("related posts: %w", err)
	}

	html, err := markdown.Render(post.Content)
	if err != nil {
		return nil, fmt.Errorf("render content: %w", err)
	}
	post.ContentHTML = html

	return &Detail{Post: post, Related: related}, nil
}

func (s *Service) Like(ctx context.Context, id string) (int64, error) {
	oid, ok := models.ParseID(id)
	if !ok {
		return 0, apperror.NotFound(resource)
	}
	return s.store.IncLikes(ctx, oid)
}

func (s *Service) Create(ctx context.Context, in *Input) (*models.Blog, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	post := &models.Blog{}
	in.apply(post)
	post.ApplyDerived(nil, s.now())

	if err := s.store.Insert(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update merges the input onto the stored post. Counters, comments, the
// first publish date and the slug survive unless the input names a new slug.
func (s *Service) Update(ctx context.Context, id string, in *Input) (*models.Blog, error) {
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
