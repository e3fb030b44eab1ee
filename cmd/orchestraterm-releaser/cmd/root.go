package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orchestraterm/releaser/internal/config"
	"github.com/orchestraterm/releaser/internal/logger"
	"github.com/orchestraterm/releaser/internal/version"
)

var (
	// configPath to the release settings YAML file.
	configPath string

	// logLevel is the minimum level for console logs.
	logLevel string

	// rootCmd represents the base command for packaging and verifying releases.
	rootCmd = &cobra.Command{
		Use:   "orchestraterm-releaser",
		Short: "Package and verify OrchestraTerm macOS releases",
		Long: `orchestraterm-releaser turns the pre-built orchestraterm binary into a
distributable macOS artifact: an application bundle inside a compressed
disk image, with a SHA-256 checksum record and a verification command.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if lvl, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(lvl)
			}
		},
	}
)

// Execute runs the releaser CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to release settings file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "log level (debug, info, warn, error)")
}
