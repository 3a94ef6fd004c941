package cmd

import (
	"github.com/spf13/cobra"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var printMetrics bool

	rootCmd := &cobra.Command{
		Use:           "feedsync",
		Short:         "feedsync: authenticated feeds, likes and request tracking",
		Long:          "feedsync keeps an API session alive across token expiry, pages through feeds, applies likes optimistically and tracks request workflows from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().BoolVar(&printMetrics, "metrics", false, "Print client metrics to stderr after the command")

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, _ []string) error {
		if printMetrics {
			if err := writeMetrics(cmd.ErrOrStderr(), app.registry); err != nil {
				return err
			}
		}
		return app.close()
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newSessionCmd(app),
		newFeedCmd(app),
		newLikeCmd(app),
		newWorkflowCmd(app),
		newMetricsCmd(app),
	)

	return rootCmd
}
