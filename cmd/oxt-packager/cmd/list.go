package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ossii/oxt-packager/internal/config"
	"github.com/ossii/oxt-packager/internal/service/packager"
)

// listCmd prints the expanded entry set a build would put into the archive.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the archive entries the manifest expands to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadOrDefault(configPath)
		if err != nil {
			return err
		}

		entries, err := packager.Entries(cfg)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), entry.Name)
		}

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(listCmd)
}
