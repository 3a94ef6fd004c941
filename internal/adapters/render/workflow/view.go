package workflow

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/feedsync/internal/domain"
)

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	done       lipgloss.Style
	current    lipgloss.Style
	upcoming   lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
	history    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		done:       lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		current:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		upcoming:   lipgloss.NewStyle().Faint(true),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		history:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Render draws the step sequence of a workflow with the projected step
// highlighted.
func Render(definition domain.WorkflowDefinition, record domain.WorkflowRecord, projection domain.StepProjection) string {
	s := newStyles()

	status := record.Status
	if status == "" {
		status = "unknown"
	}
	lines := []string{
		s.title.Render(fmt.Sprintf("%s #%s", definition.Name, record.ID)),
		s.header.Render(fmt.Sprintf("status: %s", status)),
		progressBar(projection, len(definition.Steps), 24, s),
	}

	for i, step := range definition.Steps {
		switch {
		case i < projection.StepIndex || (i == projection.StepIndex && projection.IsTerminal):
			lines = append(lines, s.done.Render("  ✓ "+step))
		case i == projection.StepIndex:
			lines = append(lines, s.current.Render("  ▸ "+step))
		default:
			lines = append(lines, s.upcoming.Render("  · "+step))
		}
	}

	for _, event := range record.History {
		when := "-"
		if !event.At.IsZero() {
			when = event.At.Format("2006-01-02 15:04")
		}
		line := fmt.Sprintf("%s  %s", when, event.Status)
		if note := strings.TrimSpace(event.Note); note != "" {
			line += "  " + note
		}
		lines = append(lines, s.history.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func progressBar(projection domain.StepProjection, steps int, width int, s styles) string {
	if steps == 0 || width <= 0 {
		return ""
	}

	fraction := float64(projection.StepIndex+1) / float64(steps)
	filled := int(math.Round(float64(width) * fraction))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
		fmt.Sprintf(" %d/%d", projection.StepIndex+1, steps),
	)
}
