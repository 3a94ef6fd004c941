package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
)

type WorkflowSource struct {
	Executor ports.RequestExecutor
}

var _ ports.WorkflowSource = WorkflowSource{}

func (s WorkflowSource) Get(ctx context.Context, resource string, id string) (domain.WorkflowRecord, error) {
	if strings.TrimSpace(id) == "" {
		return domain.WorkflowRecord{}, fmt.Errorf("record id is required: %w", domain.ErrValidationFailure)
	}

	resp, err := s.Executor.Execute(ctx, domain.Request{
		Method: http.MethodGet,
		Path:   resourcePath(resource, id),
	})
	if err != nil {
		return domain.WorkflowRecord{}, fmt.Errorf("get %s %s: %w", resource, id, err)
	}

	return decodeRecord(resp, resource)
}

func (s WorkflowSource) Submit(ctx context.Context, resource string, payload map[string]any) (domain.WorkflowRecord, error) {
	resp, err := s.Executor.Execute(ctx, domain.Request{
		Method: http.MethodPost,
		Path:   resourcePath(resource),
		Body:   payload,
	})
	if err != nil {
		return domain.WorkflowRecord{}, fmt.Errorf("submit %s: %w", resource, err)
	}

	return decodeRecord(resp, resource)
}

func decodeRecord(resp *domain.Response, resource string) (domain.WorkflowRecord, error) {
	var fields map[string]any
	if err := DecodeResponse(resp, &fields); err != nil {
		return domain.WorkflowRecord{}, fmt.Errorf("decode %s record: %w", resource, err)
	}

	record := domain.WorkflowRecord{
		ID:     idString(fields["id"]),
		Status: stringValue(fields["status"]),
		Fields: fields,
	}
	if history, ok := fields["history"].([]any); ok {
		for _, entry := range history {
			event, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			record.History = append(record.History, domain.WorkflowEvent{
				Status: stringValue(event["status"]),
				At:     timeValue(firstPresent(event, "at", "timestamp", "created_at")),
				Note:   stringValue(firstPresent(event, "note", "comment")),
			})
		}
	}

	return record, nil
}

func firstPresent(fields map[string]any, keys ...string) any {
	for _, key := range keys {
		if value, ok := fields[key]; ok && value != nil {
			return value
		}
	}
	return nil
}

func stringValue(value any) string {
	s, _ := value.(string)
	return s
}

func timeValue(value any) time.Time {
	s, ok := value.(string)
	if !ok {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
