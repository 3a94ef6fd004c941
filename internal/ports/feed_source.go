package ports

import (
	"context"

	"github.com/bnema/feedsync/internal/domain"
)

type FeedSource interface {
	FetchPage(ctx context.Context, query domain.FeedQuery) (domain.FeedPage, error)
}

type LikeService interface {
	// ToggleLike returns the like state reported by the server.
	ToggleLike(ctx context.Context, resource string, id domain.ItemID) (liked bool, err error)
}
