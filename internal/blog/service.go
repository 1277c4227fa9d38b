package blog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ticketera/internal/shared/listing"
	"ticketera/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	CreatePost(ctx context.Context, req CreatePostRequest) (*BlogPost, error)
	GetPost(ctx context.Context, id uuid.UUID) (*BlogPost, error)
	GetPublishedPost(ctx context.Context, slug string) (*BlogPost, error)
	UpdatePost(ctx context.Context, id uuid.UUID, req UpdatePostRequest) (*BlogPost, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	ListPosts(ctx context.Context, q PostListQuery) (listing.Page[BlogPost], error)
	ListPublished(ctx context.Context, q PostListQuery) (listing.Page[BlogPost], error)
	PublishPost(ctx context.Context, id uuid.UUID) (*BlogPost, error)
	ArchivePost(ctx context.Context, id uuid.UUID) (*BlogPost, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  logger.GetDefault().WithComponent("blog"),
		now:  time.Now,
	}
}

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*BlogPost, error) {
	slug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	post := &BlogPost{
		Title:    strings.TrimSpace(req.Title),
		Slug:     slug,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
		Author:   req.Author,
		Date:     req.Date,
		Category: req.Category,
		Tags:     normalizeTags(req.Tags),
		Status:   StatusDraft,
		Featured: req.Featured,
	}
	if req.Status != "" {
		post.Status = Status(req.Status)
	}
	if post.Status == StatusPublished && post.Date == nil {
		now := s.now()
		post.Date = &now
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create blog post: %w", err)
	}
	s.log.Info("blog post created", slog.String("post_id", post.ID.String()), slog.String("slug", post.Slug))
	return post, nil
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*BlogPost, error) {
	return s.repo.GetByID(ctx, id)
}

// GetPublishedPost hides drafts and archived posts and counts the view
func (s *service) GetPublishedPost(ctx context.Context, slug string) (*BlogPost, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post.Status != StatusPublished {
		return nil, ErrPostNotFound
	}

	if err := s.repo.IncrementViews(ctx, post.ID); err != nil {
		s.log.Warn("failed to count blog view", slog.String("post_id", post.ID.String()), slog.Any("error", err))
	} else {
		post.Views++
	}
	return post, nil
}

func (s *service) UpdatePost(ctx context.Context, id uuid.UUID, req UpdatePostRequest) (*BlogPost, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != post.Title {
		post.Title = strings.TrimSpace(*req.Title)
		if post.Status == StatusDraft {
			slug, err := s.uniqueSlug(ctx, post.Title)
			if err != nil {
				return nil, err
			}
			post.Slug = slug
		}
	}
	if req.Excerpt != nil {
		post.Excerpt = *req.Excerpt
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Author != nil {
		post.Author = *req.Author
	}
	if req.Date != nil {
		post.Date = req.Date
	}
	if req.Category != nil {
		post.Category = *req.Category
	}
	if req.Tags != nil {
		post.Tags = normalizeTags(req.Tags)
	}
	if req.Featured != nil {
		post.Featured = *req.Featured
	}

	if err := s.repo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update blog post: %w", err)
	}
	return post, nil
}

func (s *service) DeletePost(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) ListPosts(ctx context.Context, q PostListQuery) (listing.Page[BlogPost], error) {
	q.Normalize()
	posts, total, err := s.repo.List(ctx, q)
	if err != nil {
		return listing.Page[BlogPost]{}, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return listing.NewPage(posts, total, q.Query), nil
}

func (s *service) ListPublished(ctx context.Context, q PostListQuery) (listing.Page[BlogPost], error) {
	q.Status = string(StatusPublished)
	return s.ListPosts(ctx, q)
}

func (s *service) PublishPost(ctx context.Context, id uuid.UUID) (*BlogPost, error) {
	return s.transition(ctx, id, StatusPublished)
}

func (s *service) ArchivePost(ctx context.Context, id uuid.UUID) (*BlogPost, error) {
	return s.transition(ctx, id, StatusArchived)
}

func (s *service) transition(ctx context.Context, id uuid.UUID, status Status) (*BlogPost, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Status == status {
		return nil, ErrStatusUnchanged
	}

	post.Status = status
	if status == StatusPublished && post.Date == nil {
		now := s.now()
		post.Date = &now
	}
	if err := s.repo.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update blog post status: %w", err)
	}
	s.log.Info("blog post status changed", slog.String("post_id", id.String()), slog.String("status", string(status)))
	return post, nil
}

// uniqueSlug appends -2, -3... until the slug is free
func (s *service) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := GenerateSlug(title)
	if base == "" {
		base = "post"
	}
	slug := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
