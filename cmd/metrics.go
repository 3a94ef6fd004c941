package cmd

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

func newMetricsCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print the client metrics registered by this process",
		Long:  "Prints the Prometheus text exposition of the client counters. Counters start at zero each run; pass --metrics to any other command to see what it did.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeMetrics(cmd.OutOrStdout(), app.registry)
		},
	}
}

func writeMetrics(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	encoder := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
