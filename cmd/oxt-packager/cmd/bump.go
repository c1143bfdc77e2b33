package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ossii/oxt-packager/internal/service/bumper"
)

// bumpCmd runs the version-update step on its own.
var bumpCmd = &cobra.Command{
	Use:   "bump [version]",
	Short: "Rewrite the VERSION marker and restamp description.xml",
	Long: "Increment the patch segment of the VERSION marker, or set the given version verbatim, " +
		"and restamp the version attribute in the extension descriptor.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		options := &bumper.Options{
			ConfigPath: configPath,
		}
		if len(args) > 0 {
			options.Version = args[0]
		}

		return bumper.Run(ctx, options)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(bumpCmd)
}
