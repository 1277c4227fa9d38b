package blog

import (
	"ticketera/internal/shared/listing"
)

// PostFilter holds the admin list predicates. Empty fields match everything.
type PostFilter struct {
	Search   string
	Category string
	Status   string
	Tag      string
	Featured *bool
}

// FilterPosts applies every active predicate in turn
func FilterPosts(posts []BlogPost, f PostFilter) []BlogPost {
	var featured listing.Predicate[BlogPost]
	if f.Featured != nil {
		want := *f.Featured
		featured = func(p BlogPost) bool { return p.Featured == want }
	}

	return listing.Filter(posts,
		func(p BlogPost) bool {
			return listing.ContainsFold(f.Search, p.Title, p.Excerpt, p.Author)
		},
		func(p BlogPost) bool { return listing.EqualOrEmpty(f.Category, p.Category) },
		func(p BlogPost) bool { return listing.EqualOrEmpty(f.Status, string(p.Status)) },
		func(p BlogPost) bool { return f.Tag == "" || p.HasTag(f.Tag) },
		featured,
	)
}
