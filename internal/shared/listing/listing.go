// Package listing holds the query and page shapes shared by every admin list screen.
package listing

import (
	"math"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query is the (page, limit, search, type, status) tuple every admin list accepts.
type Query struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
	Type   string `form:"type"`
	Status string `form:"status"`
}

// Normalize clamps paging values into range and trims the free-text fields.
func (q *Query) Normalize() {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	q.Type = strings.TrimSpace(q.Type)
	q.Status = strings.TrimSpace(q.Status)
}

func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// SearchPattern returns the lowercase LIKE pattern for Search.
func (q Query) SearchPattern() string {
	return "%" + strings.ToLower(q.Search) + "%"
}

// Paginate applies offset and limit to a gorm query.
func (q Query) Paginate(db *gorm.DB) *gorm.DB {
	return db.Offset(q.Offset()).Limit(q.Limit)
}

// Page is a page of results. Items is never nil so an empty result
// serializes as [] and is distinguishable from a failed load.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func NewPage[T any](items []T, total int64, q Query) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: TotalPages(total, q.Limit),
	}
}

// Map converts the items of a page, keeping its paging metadata.
func Map[T, R any](p Page[T], fn func(T) R) Page[R] {
	out := make([]R, 0, len(p.Items))
	for _, item := range p.Items {
		out = append(out, fn(item))
	}
	return Page[R]{Items: out, Total: p.Total, Page: p.Page, Limit: p.Limit, TotalPages: p.TotalPages}
}

func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
