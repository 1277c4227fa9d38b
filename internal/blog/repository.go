package blog

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, post *BlogPost) error
	GetByID(ctx context.Context, id uuid.UUID) (*BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*BlogPost, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Save(ctx context.Context, post *BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q PostListQuery) ([]BlogPost, int64, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, post *BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*BlogPost, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	return r.first(ctx, "slug = ?", slug)
}

func (r *repository) first(ctx context.Context, query string, arg interface{}) (*BlogPost, error) {
	var post BlogPost
	if err := r.db.WithContext(ctx).Where(query, arg).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (r *repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&BlogPost{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *repository) Save(ctx context.Context, post *BlogPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&BlogPost{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, q PostListQuery) ([]BlogPost, int64, error) {
	var (
		posts []BlogPost
		total int64
	)

	db := r.db.WithContext(ctx).Model(&BlogPost{})
	if q.Search != "" {
		pattern := q.SearchPattern()
		db = db.Where("LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ? OR LOWER(author) LIKE ?", pattern, pattern, pattern)
	}
	if q.Type != "" && q.Type != "all" {
		db = db.Where("LOWER(category) = LOWER(?)", q.Type)
	}
	if q.Status != "" && q.Status != "all" {
		db = db.Where("status = ?", q.Status)
	}
	if tags := normalizeTags([]string{q.Tag}); len(tags) == 1 {
		encoded, _ := json.Marshal(tags)
		db = db.Where("tags @> ?::jsonb", string(encoded))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Paginate(db).Order("featured DESC, date DESC NULLS LAST, created_at DESC").Find(&posts).Error
	return posts, total, err
}

func (r *repository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&BlogPost{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
