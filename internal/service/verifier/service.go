package verifier

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/orchestraterm/releaser/internal/artifact"
	"github.com/orchestraterm/releaser/internal/checksum"
	"github.com/orchestraterm/releaser/internal/config"
	"github.com/orchestraterm/releaser/internal/logger"
	"github.com/orchestraterm/releaser/internal/manifest"
	"github.com/orchestraterm/releaser/internal/tools"
)

// ErrArtifactMissing is returned when the image or its checksum record is
// absent. It always wraps the specific missing path and is distinct from
// checksum.ErrMismatch: absence is not tampering.
var ErrArtifactMissing = errors.New("release artifact missing")

// Options contains inputs for the verify entry point.
type Options struct {
	// ConfigPath is an optional path to the release settings file.
	ConfigPath string
	// VersionOverride, when non-empty, replaces the version resolved from
	// the local build manifest. It enables verifying artifacts built
	// elsewhere.
	VersionOverride string
}

// Result reports a successful verification.
type Result struct {
	// ImagePath is the verified disk image.
	ImagePath string
	// Digest is the confirmed SHA-256 of the image.
	Digest string
	// Info is the structural image metadata; nil when unreadable.
	// It is informational and never blocks verification.
	Info *tools.ImageInfo
}

// Run verifies the release artifacts for the resolved (or overridden) version.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "release-verify")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	svc := &service{cfg: cfg, imager: tools.HdiutilImager{}}

	return svc.Run(ctx, opts.VersionOverride)
}

// service performs the verification steps against an injected imager.
type service struct {
	cfg    *config.Config
	imager tools.DiskImager
}

// Run checks presence, digest, and metadata in that order.
func (s *service) Run(ctx context.Context, versionOverride string) (*Result, error) {
	version := versionOverride
	if version == "" {
		resolved, err := manifest.ResolveVersion(s.cfg.ManifestPath)
		if err != nil {
			return nil, err
		}

		version = resolved
	}

	release := artifact.New(s.cfg.AppName, s.cfg.BinaryName, version)
	imagePath := release.ImagePath(s.cfg.OutputDir)
	recordPath := release.ChecksumPath(s.cfg.OutputDir)

	// Fail fast on the first missing path, naming it.
	for _, path := range []string{imagePath, recordPath} {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
		}
	}

	digest, err := checksum.Verify(imagePath, recordPath)
	if err != nil {
		return nil, err
	}

	result := &Result{ImagePath: imagePath, Digest: digest}

	info, err := s.imager.Info(ctx, imagePath)
	if err != nil {
		logger.Warnf(ctx, "unable to read image metadata: %v", err)
	} else {
		result.Info = info
	}

	logger.InfoKV(ctx, "Release artifact verified", "image", imagePath, "version", version)

	return result, nil
}
