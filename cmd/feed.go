package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	feedrender "github.com/bnema/feedsync/internal/adapters/render/feed"
	"github.com/bnema/feedsync/internal/application"
	"github.com/bnema/feedsync/internal/domain"
	"github.com/spf13/cobra"
)

type feedItemOutput struct {
	ID             string         `json:"id"`
	Liked          bool           `json:"liked"`
	LikeCount      int64          `json:"like_count"`
	Reconciliation string         `json:"reconciliation"`
	Fields         map[string]any `json:"fields"`
}

type feedOutput struct {
	Resource  string           `json:"resource"`
	Category  string           `json:"category,omitempty"`
	Search    string           `json:"search,omitempty"`
	Exhausted bool             `json:"exhausted"`
	Items     []feedItemOutput `json:"items"`
}

func newFeedCmd(app *app) *cobra.Command {
	var resource string
	var filter domain.FeedFilter
	var pages int
	var width int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Page through a feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pages <= 0 {
				return fmt.Errorf("--pages must be positive, got %d", pages)
			}
			resource = resolveResource(app, resource)

			controller := application.NewFeedController(app.feed, resource, app.config.Feed.PageSize, app.options...)
			defer controller.Close()
			controller.Reset(filter)

			load := func(ctx context.Context) error {
				return loadPages(ctx, controller, pages)
			}
			var err error
			if asJSON {
				err = load(cmd.Context())
			} else {
				err = runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), fmt.Sprintf("Loading %s...", resource), load)
			}
			if err != nil {
				return err
			}

			snapshot := controller.Snapshot()
			if asJSON {
				return writeFeedJSON(cmd, resource, snapshot)
			}

			rendered, err := feedrender.Render(snapshot, feedrender.RenderOptions{Resource: resource, MaxTextWidth: width})
			if err != nil {
				return fmt.Errorf("render feed: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&resource, "resource", "", "Feed resource (default: feed.resource)")
	cmd.Flags().StringVar(&filter.Category, "category", "", "Only items in this category")
	cmd.Flags().StringVar(&filter.Search, "search", "", "Only items matching this search term")
	cmd.Flags().IntVar(&pages, "pages", 1, "Number of pages to load")
	cmd.Flags().IntVar(&width, "width", 72, "Truncate titles to this many characters (0 disables)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

// loadPages loads up to pages pages and stops early once the feed is exhausted.
func loadPages(ctx context.Context, controller *application.FeedController, pages int) error {
	for p := 0; p < pages; p++ {
		loaded, err := controller.LoadNext(ctx)
		if err != nil {
			return err
		}
		if !loaded || controller.Snapshot().Exhausted {
			return nil
		}
	}
	return nil
}

func resolveResource(app *app, resource string) string {
	resource = strings.Trim(strings.TrimSpace(resource), "/")
	if resource == "" {
		return app.config.Feed.Resource
	}
	return resource
}

func writeFeedJSON(cmd *cobra.Command, resource string, snapshot domain.FeedSnapshot) error {
	out := feedOutput{
		Resource:  resource,
		Category:  snapshot.Filter.Category,
		Search:    snapshot.Filter.Search,
		Exhausted: snapshot.Exhausted,
		Items:     make([]feedItemOutput, 0, len(snapshot.Items)),
	}
	for _, item := range snapshot.Items {
		out.Items = append(out.Items, itemOutput(item))
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func itemOutput(item domain.Item) feedItemOutput {
	fields := item.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	return feedItemOutput{
		ID:             string(item.ID),
		Liked:          item.Liked,
		LikeCount:      item.LikeCount,
		Reconciliation: string(item.Reconciliation),
		Fields:         fields,
	}
}
