package application

import (
	"encoding/json"
	"fmt"
	"strings"
)

type SubmitCommand struct {
	Workflow string
	Fields   []string
}

// Payload turns key=value assignments into a request body. Values that parse
// as JSON (numbers, booleans, objects) keep their type; everything else is a
// string.
func (c SubmitCommand) Payload() (map[string]any, error) {
	payload := make(map[string]any, len(c.Fields))
	for _, field := range c.Fields {
		key, raw, ok := strings.Cut(field, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q: expected key=value", field)
		}

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		payload[key] = value
	}
	return payload, nil
}
