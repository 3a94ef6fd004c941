package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

type sessionOutput struct {
	State           string     `json:"state"`
	Profile         string     `json:"profile"`
	Backend         string     `json:"backend"`
	BaseURL         string     `json:"base_url"`
	AccessExpiresAt *time.Time `json:"access_expires_at,omitempty"`
}

func newSessionCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show the stored session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status := app.sessions.Status(app.config.Session.Profile, app.inspector)
			out := sessionOutput{
				State:   string(status.State),
				Profile: status.Profile,
				Backend: string(app.config.Session.Backend),
				BaseURL: app.config.API.BaseURL,
			}
			if status.HasExpiry {
				expiresAt := status.AccessExpiresAt.UTC()
				out.AccessExpiresAt = &expiresAt
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "state:   %s\n", out.State)
			_, _ = fmt.Fprintf(w, "profile: %s\n", out.Profile)
			_, _ = fmt.Fprintf(w, "backend: %s\n", out.Backend)
			_, _ = fmt.Fprintf(w, "api:     %s\n", out.BaseURL)
			if out.AccessExpiresAt != nil {
				_, _ = fmt.Fprintf(w, "access expires: %s (%s)\n", out.AccessExpiresAt.Format(time.RFC3339), humanizeUntil(time.Until(*out.AccessExpiresAt)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func humanizeUntil(d time.Duration) string {
	if d <= 0 {
		return "expired"
	}
	return "in " + d.Round(time.Second).String()
}
