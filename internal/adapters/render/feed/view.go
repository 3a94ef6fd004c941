package feed

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/feedsync/internal/domain"
)

type RenderOptions struct {
	Resource string
	// MaxTextWidth truncates item titles; zero disables truncation.
	MaxTextWidth int
}

var titleFields = []string{"title", "name", "item", "content", "description"}

func renderView(snapshot domain.FeedSnapshot, opts RenderOptions, s styles) string {
	resource := opts.Resource
	if resource == "" {
		resource = "feed"
	}

	lines := []string{
		s.title.Render(fmt.Sprintf("Feed: %s", resource)),
		s.header.Render(headerLine(snapshot)),
	}

	if len(snapshot.Items) == 0 {
		lines = append(lines, s.empty.Render("No items."))
	}
	for _, item := range snapshot.Items {
		lines = append(lines, itemLine(item, opts, s))
	}

	lines = append(lines, s.footer.Render(footerLine(snapshot)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func headerLine(snapshot domain.FeedSnapshot) string {
	parts := []string{fmt.Sprintf("items: %d", len(snapshot.Items))}
	if snapshot.Filter.Category != "" {
		parts = append(parts, "category: "+snapshot.Filter.Category)
	}
	if snapshot.Filter.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", snapshot.Filter.Search))
	}
	return strings.Join(parts, "  ")
}

func footerLine(snapshot domain.FeedSnapshot) string {
	switch {
	case snapshot.Loading:
		return "loading..."
	case snapshot.Exhausted:
		return "end of feed"
	default:
		return "more available"
	}
}

func itemLine(item domain.Item, opts RenderOptions, s styles) string {
	like := s.unliked.Render(fmt.Sprintf("♡ %d", item.LikeCount))
	if item.Liked {
		like = s.liked.Render(fmt.Sprintf("♥ %d", item.LikeCount))
	}

	parts := []string{
		s.itemID.Render(fmt.Sprintf("#%-6s", item.ID)),
		like,
		s.itemText.Render(truncate(ItemTitle(item), opts.MaxTextWidth)),
	}

	switch item.Reconciliation {
	case domain.ReconcilePending:
		parts = append(parts, s.pending.Render("[pending]"))
	case domain.ReconcileRolledBack:
		parts = append(parts, s.reverted.Render("[reverted]"))
	}

	return strings.Join(parts, " ")
}

// ItemTitle picks the first display field present on item.
func ItemTitle(item domain.Item) string {
	for _, field := range titleFields {
		if text := strings.TrimSpace(item.StringField(field)); text != "" {
			return strings.Join(strings.Fields(text), " ")
		}
	}
	return "(untitled)"
}

func truncate(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
