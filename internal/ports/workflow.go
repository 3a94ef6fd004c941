package ports

import (
	"context"

	"github.com/bnema/feedsync/internal/domain"
)

type WorkflowSource interface {
	Get(ctx context.Context, resource string, id string) (domain.WorkflowRecord, error)
	Submit(ctx context.Context, resource string, payload map[string]any) (domain.WorkflowRecord, error)
}

type WorkflowCatalog interface {
	Definitions(ctx context.Context) ([]domain.WorkflowDefinition, error)
}
