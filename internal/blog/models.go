package blog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPostNotFound    = errors.New("blog post not found")
	ErrStatusUnchanged = errors.New("blog post already has that status")
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

type BlogPost struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title     string     `json:"title" gorm:"not null"`
	Slug      string     `json:"slug" gorm:"size:200;not null;uniqueIndex"`
	Excerpt   string     `json:"excerpt" gorm:"size:500"`
	Content   string     `json:"content" gorm:"type:text"`
	Author    string     `json:"author" gorm:"not null"`
	Date      *time.Time `json:"date,omitempty" gorm:"index"`
	Category  string     `json:"category" gorm:"index"`
	Tags      []string   `json:"tags" gorm:"type:jsonb;serializer:json"`
	Status    Status     `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	Featured  bool       `json:"featured" gorm:"default:false"`
	Views     int        `json:"views" gorm:"default:0"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

func (p BlogPost) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if equalFold(t, tag) {
			return true
		}
	}
	return false
}
