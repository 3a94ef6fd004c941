package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
)

type LikeService struct {
	Executor ports.RequestExecutor
}

var _ ports.LikeService = LikeService{}

type likeToggleResponse struct {
	Message string `json:"message"`
	Liked   *bool  `json:"is_liked"`
}

func (s LikeService) ToggleLike(ctx context.Context, resource string, id domain.ItemID) (bool, error) {
	if strings.TrimSpace(string(id)) == "" {
		return false, fmt.Errorf("item id is required: %w", domain.ErrValidationFailure)
	}

	resp, err := s.Executor.Execute(ctx, domain.Request{
		Method: http.MethodPost,
		Path:   resourcePath(resource, string(id), "like-toggle"),
	})
	if err != nil {
		return false, fmt.Errorf("toggle like on %s %s: %w", resource, id, err)
	}

	var payload likeToggleResponse
	if err := DecodeResponse(resp, &payload); err != nil {
		return false, fmt.Errorf("toggle like on %s %s: %w", resource, id, err)
	}

	if payload.Liked != nil {
		return *payload.Liked, nil
	}
	switch strings.ToLower(strings.TrimSpace(payload.Message)) {
	case "liked":
		return true, nil
	case "unliked":
		return false, nil
	default:
		return false, &domain.RequestError{
			Kind:       domain.ErrorKindServer,
			StatusCode: resp.StatusCode,
			Body:       payload.Message,
			Err:        errors.New("unexpected like-toggle message"),
		}
	}
}
