package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	feedrender "github.com/bnema/feedsync/internal/adapters/render/feed"
	"github.com/bnema/feedsync/internal/application"
	"github.com/bnema/feedsync/internal/domain"
	"github.com/spf13/cobra"
)

func newLikeCmd(app *app) *cobra.Command {
	var resource string
	var maxPages int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "like <id>",
		Short: "Toggle the like on a feed item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxPages <= 0 {
				return fmt.Errorf("--max-pages must be positive, got %d", maxPages)
			}
			resource = resolveResource(app, resource)
			id := domain.ItemID(args[0])

			controller := application.NewFeedController(app.feed, resource, app.config.Feed.PageSize, app.options...)
			defer controller.Close()
			engine := application.NewMutationEngine(controller, []application.Mutator{
				application.LikeMutator{Service: app.likes, Resource: resource},
			}, app.options...)
			defer engine.Close()

			var settled domain.Item
			var applyErr error
			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Updating like...", func(ctx context.Context) error {
				if err := findItem(ctx, controller, id, maxPages); err != nil {
					return err
				}
				settled, applyErr = engine.Apply(ctx, id, domain.MutationLike)
				return nil
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(itemOutput(settled)); err != nil {
					return err
				}
				return applyErr
			}

			if applyErr != nil {
				if settled.ID != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reverted %s: still %s (%d likes)\n", describeItem(settled), likeVerb(settled.Liked), settled.LikeCount)
				}
				return applyErr
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d likes)\n", capitalizedLikeVerb(settled.Liked), describeItem(settled), settled.LikeCount)
			return err
		},
	}

	cmd.Flags().StringVar(&resource, "resource", "", "Feed resource (default: feed.resource)")
	cmd.Flags().IntVar(&maxPages, "max-pages", 10, "Pages to search for the item before giving up")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

// findItem pages through the feed until id is loaded.
func findItem(ctx context.Context, controller *application.FeedController, id domain.ItemID, maxPages int) error {
	for p := 0; p < maxPages; p++ {
		if _, ok := controller.Item(id); ok {
			return nil
		}
		loaded, err := controller.LoadNext(ctx)
		if err != nil {
			return err
		}
		if !loaded {
			break
		}
	}
	if _, ok := controller.Item(id); ok {
		return nil
	}
	return fmt.Errorf("item %s: %w", id, domain.ErrItemNotFound)
}

func describeItem(item domain.Item) string {
	title := feedrender.ItemTitle(item)
	if title == "(untitled)" {
		return "#" + string(item.ID)
	}
	return fmt.Sprintf("#%s %q", item.ID, title)
}

func likeVerb(liked bool) string {
	if liked {
		return "liked"
	}
	return "unliked"
}

func capitalizedLikeVerb(liked bool) string {
	if liked {
		return "Liked"
	}
	return "Unliked"
}
