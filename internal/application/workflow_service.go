package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
)

// DefaultWorkflow is used when no catalog is configured.
var DefaultWorkflow = domain.WorkflowDefinition{
	Name:     "requests",
	Resource: "requests",
	Steps:    domain.DefaultWorkflowSteps,
}

type TrackedRecord struct {
	Definition domain.WorkflowDefinition
	Record     domain.WorkflowRecord
	Projection domain.StepProjection
}

type WorkflowService struct {
	source  ports.WorkflowSource
	catalog ports.WorkflowCatalog
}

func NewWorkflowService(source ports.WorkflowSource, catalog ports.WorkflowCatalog) *WorkflowService {
	return &WorkflowService{source: source, catalog: catalog}
}

// Definition looks a workflow up by name. An empty name selects the first
// configured workflow.
func (s *WorkflowService) Definition(ctx context.Context, name string) (domain.WorkflowDefinition, error) {
	if s.catalog == nil {
		if name == "" || strings.EqualFold(name, DefaultWorkflow.Name) {
			return DefaultWorkflow, nil
		}
		return domain.WorkflowDefinition{}, fmt.Errorf("workflow %q: %w", name, domain.ErrWorkflowNotFound)
	}

	definitions, err := s.catalog.Definitions(ctx)
	if err != nil {
		return domain.WorkflowDefinition{}, fmt.Errorf("load workflow definitions: %w", err)
	}
	if len(definitions) == 0 {
		if name == "" || strings.EqualFold(name, DefaultWorkflow.Name) {
			return DefaultWorkflow, nil
		}
		return domain.WorkflowDefinition{}, fmt.Errorf("workflow %q: %w", name, domain.ErrWorkflowNotFound)
	}
	if name == "" {
		return definitions[0], nil
	}
	for _, definition := range definitions {
		if strings.EqualFold(definition.Name, name) {
			return definition, nil
		}
	}

	return domain.WorkflowDefinition{}, fmt.Errorf("workflow %q: %w", name, domain.ErrWorkflowNotFound)
}

func (s *WorkflowService) Track(ctx context.Context, workflow string, id string) (TrackedRecord, error) {
	definition, err := s.Definition(ctx, workflow)
	if err != nil {
		return TrackedRecord{}, err
	}

	record, err := s.source.Get(ctx, definition.Resource, id)
	if err != nil {
		return TrackedRecord{}, err
	}

	return project(definition, record), nil
}

func (s *WorkflowService) Submit(ctx context.Context, workflow string, payload map[string]any) (TrackedRecord, error) {
	definition, err := s.Definition(ctx, workflow)
	if err != nil {
		return TrackedRecord{}, err
	}

	record, err := s.source.Submit(ctx, definition.Resource, payload)
	if err != nil {
		return TrackedRecord{}, err
	}

	return project(definition, record), nil
}

func project(definition domain.WorkflowDefinition, record domain.WorkflowRecord) TrackedRecord {
	return TrackedRecord{
		Definition: definition,
		Record:     record,
		Projection: domain.ProjectStep(record.Status, definition.Steps),
	}
}
