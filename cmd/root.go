package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ssim",
		Short:         "Session simulator (ssim): run in-memory visitor session populations",
		Long:          "ssim runs an in-memory simulation of ephemeral visitor sessions against a named target, aggregates per-tick statistics and renders them in the terminal. Events never leave the process except to a local file or the log.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(app),
		newPresetCmd(app),
	)

	return rootCmd
}
