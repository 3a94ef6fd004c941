package yaml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bnema/feedsync/internal/domain"
	"github.com/bnema/feedsync/internal/ports"
)

type fileSchema struct {
	Workflows []workflowSchema `yaml:"workflows"`
}

type workflowSchema struct {
	Name     string   `yaml:"name"`
	Resource string   `yaml:"resource"`
	Steps    []string `yaml:"steps"`
}

// Catalog reads workflow step definitions from a YAML file. A missing file
// yields no definitions.
type Catalog struct {
	path string
}

var _ ports.WorkflowCatalog = Catalog{}

func NewCatalog(path string) Catalog {
	return Catalog{path: path}
}

func (c Catalog) Definitions(ctx context.Context) ([]domain.WorkflowDefinition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read workflow catalog: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) ([]domain.WorkflowDefinition, error) {
	var schema fileSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decode workflow catalog: %w", err)
	}

	definitions := make([]domain.WorkflowDefinition, 0, len(schema.Workflows))
	seen := map[string]bool{}
	for i, wf := range schema.Workflows {
		name := strings.TrimSpace(wf.Name)
		if name == "" {
			return nil, fmt.Errorf("workflow %d: name is required", i)
		}
		if seen[strings.ToLower(name)] {
			return nil, fmt.Errorf("workflow %q: duplicate name", name)
		}
		seen[strings.ToLower(name)] = true

		steps := make([]string, 0, len(wf.Steps))
		for _, step := range wf.Steps {
			if step = strings.TrimSpace(step); step != "" {
				steps = append(steps, step)
			}
		}
		if len(steps) == 0 {
			return nil, fmt.Errorf("workflow %q: at least one step is required", name)
		}

		resource := strings.TrimSpace(wf.Resource)
		if resource == "" {
			resource = name
		}

		definitions = append(definitions, domain.WorkflowDefinition{
			Name:     name,
			Resource: resource,
			Steps:    steps,
		})
	}

	return definitions, nil
}
