package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/orchestraterm/releaser/internal/service/verifier"
)

// verifyCmd re-validates a published release.
var verifyCmd = &cobra.Command{
	Use:   "verify [version]",
	Short: "Verify a published release artifact against its checksum record",
	Long: `Confirm the disk image and its checksum record exist, recompute the
image digest against the record, and display the image metadata. The
version defaults to the local build manifest; pass it explicitly to verify
an artifact built elsewhere.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		options := &verifier.Options{
			ConfigPath: configPath,
		}
		if len(args) == 1 {
			options.VersionOverride = args[0]
		}

		result, err := verifier.Run(ctx, options)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		if result.Info != nil {
			_, _ = fmt.Fprintf(out, "format: %s\n", result.Info.Format)
			_, _ = fmt.Fprintf(out, "class: %s\n", result.Info.ClassName)
			_, _ = fmt.Fprintf(out, "size: %d bytes\n", result.Info.SizeInformation.TotalBytes)
		}

		_, _ = fmt.Fprintf(out, "ok: %s\n", result.ImagePath)

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(verifyCmd)
}
