package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	workflowrender "github.com/bnema/feedsync/internal/adapters/render/workflow"
	"github.com/bnema/feedsync/internal/application"
	"github.com/spf13/cobra"
)

type workflowEventOutput struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
	Note   string    `json:"note,omitempty"`
}

type workflowOutput struct {
	Workflow   string                `json:"workflow"`
	ID         string                `json:"id"`
	Status     string                `json:"status"`
	Step       string                `json:"step"`
	StepIndex  int                   `json:"step_index"`
	Steps      []string              `json:"steps"`
	IsTerminal bool                  `json:"is_terminal"`
	History    []workflowEventOutput `json:"history"`
}

func newWorkflowCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Track and submit workflow records",
	}

	cmd.AddCommand(newWorkflowTrackCmd(app), newWorkflowSubmitCmd(app))

	return cmd
}

func newWorkflowTrackCmd(app *app) *cobra.Command {
	var workflow string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "track <id>",
		Short: "Show where a record is in its workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tracked application.TrackedRecord
			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching record...", func(ctx context.Context) error {
				var err error
				tracked, err = app.workflows.Track(ctx, workflow, args[0])
				return err
			})
			if err != nil {
				return err
			}
			return writeTracked(cmd, tracked, asJSON)
		},
	}

	cmd.Flags().StringVar(&workflow, "workflow", "", "Workflow definition name (default: first defined)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newWorkflowSubmitCmd(app *app) *cobra.Command {
	var command application.SubmitCommand
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Create a record and show its initial step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := command.Payload()
			if err != nil {
				return err
			}

			var tracked application.TrackedRecord
			err = runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Submitting...", func(ctx context.Context) error {
				var err error
				tracked, err = app.workflows.Submit(ctx, command.Workflow, payload)
				return err
			})
			if err != nil {
				return err
			}
			return writeTracked(cmd, tracked, asJSON)
		},
	}

	cmd.Flags().StringVar(&command.Workflow, "workflow", "", "Workflow definition name (default: first defined)")
	cmd.Flags().StringArrayVar(&command.Fields, "field", nil, "Record field as key=value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	_ = cmd.MarkFlagRequired("field")

	return cmd
}

func writeTracked(cmd *cobra.Command, tracked application.TrackedRecord, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), workflowrender.Render(tracked.Definition, tracked.Record, tracked.Projection))
		return err
	}

	out := workflowOutput{
		Workflow:   tracked.Definition.Name,
		ID:         tracked.Record.ID,
		Status:     tracked.Record.Status,
		StepIndex:  tracked.Projection.StepIndex,
		Steps:      tracked.Definition.Steps,
		IsTerminal: tracked.Projection.IsTerminal,
		History:    make([]workflowEventOutput, 0, len(tracked.Record.History)),
	}
	if len(tracked.Definition.Steps) > 0 {
		out.Step = tracked.Definition.Steps[tracked.Projection.StepIndex]
	}
	for _, event := range tracked.Record.History {
		out.History = append(out.History, workflowEventOutput{Status: event.Status, At: event.At, Note: event.Note})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
