package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ossii/oxt-packager/internal/service/watcher"
)

// watchCmd rebuilds the archive on every source change.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the archive whenever a manifest source changes",
	Long: "Watch every manifest root and rebuild the .oxt archive after changes settle. " +
		"Rebuilds skip the version-update step. Stop with Ctrl-C.",
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		options := &watcher.Options{
			ConfigPath:  configPath,
			ProjectName: projectName,
		}

		return watcher.Run(ctx, options)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	watchCmd.Flags().StringVarP(&projectName, "project", "p", "",
		"override the project name used as the archive prefix")
	rootCmd.AddCommand(watchCmd)
}
