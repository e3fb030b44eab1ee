package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orchestraterm/releaser/internal/service/builder"
)

// buildCmd runs the release pipeline end to end.
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the release disk image and checksum record",
	Long: `Resolve the release version from the build manifest, derive the icon
container, assemble the application bundle, create the compressed disk
image, and write its checksum record. Prints the published artifact path
on success.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		imagePath, err := builder.Run(ctx, &builder.Options{
			ConfigPath: configPath,
		})
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), imagePath)

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(buildCmd)
}
