package feed

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	itemID   lipgloss.Style
	itemText lipgloss.Style
	liked    lipgloss.Style
	unliked  lipgloss.Style
	pending  lipgloss.Style
	reverted lipgloss.Style
	empty    lipgloss.Style
	footer   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		itemID:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		itemText: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		liked:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("204")),
		unliked:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		pending:  lipgloss.NewStyle().Faint(true),
		reverted: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		empty:    lipgloss.NewStyle().Faint(true),
		footer:   lipgloss.NewStyle().MarginTop(1).Foreground(lipgloss.Color("241")),
	}
}
