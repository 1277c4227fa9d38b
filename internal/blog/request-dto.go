package blog

import (
	"time"

	"ticketera/internal/shared/listing"
)

type CreatePostRequest struct {
	Title    string     `json:"title" binding:"required,max=200"`
	Excerpt  string     `json:"excerpt" binding:"max=500"`
	Content  string     `json:"content" binding:"required"`
	Author   string     `json:"author" binding:"required,max=120"`
	Date     *time.Time `json:"date"`
	Category string     `json:"category" binding:"max=60"`
	Tags     []string   `json:"tags" binding:"max=20,dive,max=40"`
	Status   string     `json:"status" binding:"omitempty,oneof=draft published archived"`
	Featured bool       `json:"featured"`
}

type UpdatePostRequest struct {
	Title    *string    `json:"title" binding:"omitempty,max=200"`
	Excerpt  *string    `json:"excerpt" binding:"omitempty,max=500"`
	Content  *string    `json:"content"`
	Author   *string    `json:"author" binding:"omitempty,max=120"`
	Date     *time.Time `json:"date"`
	Category *string    `json:"category" binding:"omitempty,max=60"`
	Tags     []string   `json:"tags" binding:"omitempty,max=20,dive,max=40"`
	Featured *bool      `json:"featured"`
}

// PostListQuery uses Query.Type as the category facet
type PostListQuery struct {
	listing.Query
	Tag string `form:"tag"`
}
