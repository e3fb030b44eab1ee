package builder

import (
	"context"
	"fmt"

	"github.com/orchestraterm/releaser/internal/config"
	"github.com/orchestraterm/releaser/internal/logger"
	"github.com/orchestraterm/releaser/internal/tools"
)

// Options contains inputs for the build entry point.
type Options struct {
	// ConfigPath is an optional path to the release settings file.
	ConfigPath string
	// Toolchain overrides the default macOS tool implementations.
	// Nil selects tools.Default().
	Toolchain *tools.Toolchain
	// EnvironmentCheck overrides the host guard. Nil selects
	// tools.CheckEnvironment.
	EnvironmentCheck func(context.Context) error
}

// Run executes the whole release pipeline and returns the published
// disk image path.
func Run(ctx context.Context, opts *Options) (string, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "release-build")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return "", err
	}

	tc := opts.Toolchain
	if tc == nil {
		tc = tools.Default()
	}

	guard := opts.EnvironmentCheck
	if guard == nil {
		guard = tools.CheckEnvironment
	}

	svc := newService(cfg, tc, guard)

	imagePath, err := svc.Run(ctx)
	if err != nil {
		return "", fmt.Errorf("build failed: %w", err)
	}

	logger.InfoKV(ctx, "Release build completed", "artifact", imagePath)

	return imagePath, nil
}
