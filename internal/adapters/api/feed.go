package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
)

const (
	fieldID        = "id"
	fieldLiked     = "is_liked"
	fieldLikeCount = "likes_count"
)

// FeedSource fetches feed pages through an authenticated executor.
type FeedSource struct {
	Executor ports.RequestExecutor
}

var _ ports.FeedSource = FeedSource{}

type pageResponse struct {
	Results []map[string]any `json:"results"`
	Next    *string          `json:"next"`
}

func (s FeedSource) FetchPage(ctx context.Context, query domain.FeedQuery) (domain.FeedPage, error) {
	if strings.TrimSpace(query.Resource) == "" {
		return domain.FeedPage{}, fmt.Errorf("feed resource is required: %w", domain.ErrValidationFailure)
	}

	resp, err := s.Executor.Execute(ctx, pageRequest(query))
	if err != nil {
		return domain.FeedPage{}, fmt.Errorf("fetch %s page: %w", query.Resource, err)
	}

	var raw json.RawMessage
	if err := DecodeResponse(resp, &raw); err != nil {
		return domain.FeedPage{}, fmt.Errorf("fetch %s page: %w", query.Resource, err)
	}

	payload, err := decodePage(raw)
	if err != nil {
		return domain.FeedPage{}, fmt.Errorf("decode %s page: %w", query.Resource, err)
	}

	page := domain.FeedPage{Items: make([]domain.Item, 0, len(payload.Results))}
	for _, fields := range payload.Results {
		item, ok := ItemFromFields(fields)
		if !ok {
			continue
		}
		page.Items = append(page.Items, item)
	}

	next := ""
	if payload.Next != nil {
		next = strings.TrimSpace(*payload.Next)
	}
	page.NextCursor = CursorFromNext(next)
	page.Exhausted = page.NextCursor == ""

	return page, nil
}

func pageRequest(query domain.FeedQuery) domain.Request {
	if strings.Contains(query.Cursor, "://") {
		return domain.Request{Method: http.MethodGet, Path: query.Cursor}
	}

	values := url.Values{}
	if query.Cursor != "" {
		values.Set("page", query.Cursor)
	}
	if query.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(query.PageSize))
	}
	filter := query.Filter.Normalize()
	if filter.Category != "" {
		values.Set("category", filter.Category)
	}
	if filter.Search != "" {
		values.Set("search", filter.Search)
	}

	return domain.Request{
		Method: http.MethodGet,
		Path:   resourcePath(query.Resource),
		Query:  values,
	}
}

// decodePage accepts the paginated envelope or a bare array, which is treated
// as a single final page.
func decodePage(raw json.RawMessage) (pageResponse, error) {
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		var results []map[string]any
		if err := unmarshalNumbers(raw, &results); err != nil {
			return pageResponse{}, err
		}
		return pageResponse{Results: results}, nil
	}

	var payload pageResponse
	if err := unmarshalNumbers(raw, &payload); err != nil {
		return pageResponse{}, err
	}
	return payload, nil
}

func unmarshalNumbers(raw []byte, out any) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	return decoder.Decode(out)
}

// CursorFromNext extracts the page number from a next link. Links without a
// page parameter are kept whole and requested as-is.
func CursorFromNext(next string) string {
	if next == "" {
		return ""
	}

	parsed, err := url.Parse(next)
	if err != nil {
		return next
	}
	if page := parsed.Query().Get("page"); page != "" {
		return page
	}
	return next
}

// ItemFromFields lifts the id and like fields out of a server record. Records
// without an id are skipped.
func ItemFromFields(fields map[string]any) (domain.Item, bool) {
	id := idString(fields[fieldID])
	if id == "" {
		return domain.Item{}, false
	}

	return domain.Item{
		ID:             domain.ItemID(id),
		Fields:         fields,
		Liked:          boolValue(fields[fieldLiked]),
		LikeCount:      int64Value(fields[fieldLikeCount]),
		Reconciliation: domain.ReconcileConfirmed,
	}, true
}
