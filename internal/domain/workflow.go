package domain

import (
	"strings"
	"time"
)

// DefaultWorkflowSteps is the order used by request-tracking views when no
// definition is configured.
var DefaultWorkflowSteps = []string{"Pending", "Approved", "Processing", "Shipped", "Delivered"}

type WorkflowDefinition struct {
	Name     string
	Resource string
	Steps    []string
}

type WorkflowEvent struct {
	Status string
	At     time.Time
	Note   string
}

type WorkflowRecord struct {
	ID      string
	Status  string
	History []WorkflowEvent
	Fields  map[string]any
}

type StepProjection struct {
	StepIndex  int
	IsTerminal bool
}

// ProjectStep maps a server status onto its index in orderedSteps. Unknown
// statuses degrade to the first step instead of failing.
func ProjectStep(serverStatus string, orderedSteps []string) StepProjection {
	if len(orderedSteps) == 0 {
		return StepProjection{}
	}

	status := strings.TrimSpace(serverStatus)
	index := 0
	for i, step := range orderedSteps {
		if strings.EqualFold(strings.TrimSpace(step), status) {
			index = i
			break
		}
	}

	return StepProjection{
		StepIndex:  index,
		IsTerminal: index == len(orderedSteps)-1,
	}
}
