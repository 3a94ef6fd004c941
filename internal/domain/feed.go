package domain

import "strings"

type FeedFilter struct {
	Category string
	Search   string
}

func (f FeedFilter) Normalize() FeedFilter {
	return FeedFilter{
		Category: strings.TrimSpace(f.Category),
		Search:   strings.TrimSpace(f.Search),
	}
}

type FeedQuery struct {
	Resource string
	Filter   FeedFilter
	Cursor   string
	PageSize int
}

type FeedPage struct {
	Items      []Item
	NextCursor string
	Exhausted  bool
}

type FeedSnapshot struct {
	Filter    FeedFilter
	Items     []Item
	Exhausted bool
	Loading   bool
}
