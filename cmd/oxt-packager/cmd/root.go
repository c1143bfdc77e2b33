package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ossii/oxt-packager/internal/logger"
	"github.com/ossii/oxt-packager/internal/service/packager"
	"github.com/ossii/oxt-packager/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// logLevel is the minimum level for console output.
	logLevel string

	// projectName overrides the archive name prefix.
	projectName string

	// skipVersionStep packages with the VERSION marker as-is.
	skipVersionStep bool

	// rootCmd represents the base command: the full version-stamp-then-archive build.
	rootCmd = &cobra.Command{
		Use:   "oxt-packager",
		Short: "Package the extension into a versioned .oxt archive",
		Long: "Run the full build: invoke the version-update step, read the VERSION marker, " +
			"and bundle the file manifest into <project>-<version>.oxt together with a release manifest.",
		Args: cobra.NoArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			options := &packager.Options{
				ConfigPath:      configPath,
				ProjectName:     projectName,
				SkipVersionStep: skipVersionStep,
			}

			return packager.Run(ctx, options)
		},
	}
)

// Execute runs the oxt-packager CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to configuration file (oxt-packager.yaml is used when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"logging level: debug, info, warn, error or fatal")
	rootCmd.Flags().StringVarP(&projectName, "project", "p", "",
		"override the project name used as the archive prefix")
	rootCmd.Flags().BoolVar(&skipVersionStep, "skip-version-step", false,
		"package with the VERSION marker as-is")
}
