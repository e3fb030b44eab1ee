package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/orchestraterm/releaser/internal/artifact"
	"github.com/orchestraterm/releaser/internal/bundle"
	"github.com/orchestraterm/releaser/internal/checksum"
	"github.com/orchestraterm/releaser/internal/config"
	"github.com/orchestraterm/releaser/internal/dmg"
	"github.com/orchestraterm/releaser/internal/icons"
	"github.com/orchestraterm/releaser/internal/logger"
	"github.com/orchestraterm/releaser/internal/manifest"
	"github.com/orchestraterm/releaser/internal/tools"
)

// outputDirMode is used for the recreated output directory.
const outputDirMode os.FileMode = 0o755

// guardFunc validates the host environment before any output is produced.
type guardFunc func(context.Context) error

// service carries the pipeline state threaded between stages.
// It is unexported — callers should use Run, which encapsulates setup.
type service struct {
	cfg   *config.Config
	tc    *tools.Toolchain
	guard guardFunc

	// State written by earlier stages and read by later ones.
	release    artifact.Release
	scratchDir string
	icnsPath   string
	bundlePath string
	stagingDir string
	imagePath  string
	recordPath string
}

// stage is one named pipeline step.
type stage struct {
	name string
	run  func(context.Context) error
}

// newService wires a pipeline against the provided toolchain and guard.
func newService(cfg *config.Config, tc *tools.Toolchain, guard guardFunc) *service {
	return &service{
		cfg:   cfg,
		tc:    tc,
		guard: guard,
	}
}

// Run executes the stages in order, stopping at the first failure and
// naming the stage that failed. Returns the published image path.
func (s *service) Run(ctx context.Context) (string, error) {
	stages := []stage{
		{name: "environment", run: s.checkEnvironment},
		{name: "version", run: s.resolveVersion},
		{name: "workspace", run: s.prepareWorkspace},
		{name: "icon", run: s.buildIconSet},
		{name: "bundle", run: s.assembleBundle},
		{name: "staging", run: s.stageImage},
		{name: "image", run: s.createImage},
		{name: "checksum", run: s.writeChecksum},
		{name: "publish", run: s.publish},
	}

	for _, st := range stages {
		if err := st.run(ctx); err != nil {
			return "", fmt.Errorf("stage %q: %w", st.name, err)
		}

		logger.DebugKV(ctx, "Stage completed", "stage", st.name)
	}

	return s.release.ImagePath(s.cfg.OutputDir), nil
}

// checkEnvironment refuses unsupported hosts before any side effects.
func (s *service) checkEnvironment(ctx context.Context) error {
	return s.guard(ctx)
}

// resolveVersion reads the release version from the build manifest.
// It runs before the workspace stage so a misconfigured manifest aborts
// the build without touching the output directory.
func (s *service) resolveVersion(ctx context.Context) error {
	version, err := manifest.ResolveVersion(s.cfg.ManifestPath)
	if err != nil {
		return err
	}

	s.release = artifact.New(s.cfg.AppName, s.cfg.BinaryName, version)

	logger.InfoKV(ctx, "Resolved release version",
		"version", version,
		"architecture", s.release.Architecture,
		"base_name", s.release.BaseName())

	return nil
}

// prepareWorkspace wipes and recreates the output directory, then creates
// the scratch directory artifacts are built in before publication.
func (s *service) prepareWorkspace(_ context.Context) error {
	if err := os.RemoveAll(s.cfg.OutputDir); err != nil {
		return fmt.Errorf("wipe output directory: %w", err)
	}

	if err := os.MkdirAll(s.cfg.OutputDir, outputDirMode); err != nil {
		return fmt.Errorf("recreate output directory: %w", err)
	}

	// Scratch lives under the output directory so the final rename
	// stays on one filesystem.
	scratchDir, err := os.MkdirTemp(s.cfg.OutputDir, ".scratch-")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}

	s.scratchDir = scratchDir

	return nil
}

// buildIconSet derives the icon container. A missing master image degrades
// to an icon-less release; any other failure aborts the run.
func (s *service) buildIconSet(ctx context.Context) error {
	builder := icons.Builder{Resizer: s.tc.Resizer, Composer: s.tc.Composer}

	icnsPath, err := builder.Build(ctx, s.cfg.MasterIconPath, s.scratchDir, s.cfg.BinaryName)
	if errors.Is(err, icons.ErrMasterMissing) {
		logger.Warnf(ctx, "master icon %s not found, building without an application icon", s.cfg.MasterIconPath)
		return nil
	} else if err != nil {
		return err
	}

	s.icnsPath = icnsPath

	return nil
}

// assembleBundle builds the .app tree in the scratch directory.
func (s *service) assembleBundle(ctx context.Context) error {
	bundlePath, err := bundle.Assemble(ctx, bundle.Spec{
		AppName:              s.cfg.AppName,
		BundleIdentifier:     s.cfg.BundleIdentifier,
		Version:              s.release.Version,
		ExecutableName:       s.cfg.BinaryName,
		BinaryPath:           s.cfg.BinaryPath,
		IconPath:             s.icnsPath,
		MinimumSystemVersion: s.cfg.MinimumSystemVersion,
	}, s.scratchDir)
	if err != nil {
		return err
	}

	s.bundlePath = bundlePath

	return nil
}

// stageImage populates the staging root the image is created from.
func (s *service) stageImage(ctx context.Context) error {
	if err := bundle.VerifyExecutable(s.bundlePath, s.cfg.BinaryName); err != nil {
		return err
	}

	s.stagingDir = filepath.Join(s.scratchDir, "staging")

	return dmg.Stage(ctx, dmg.StageSpec{
		BundlePath: s.bundlePath,
		IconPath:   s.icnsPath,
	}, s.stagingDir, s.tc.Flagger)
}

// createImage converts the staging root into the compressed image.
func (s *service) createImage(ctx context.Context) error {
	s.imagePath = s.release.ImagePath(s.scratchDir)

	return dmg.Create(ctx, s.tc.Imager, s.stagingDir, s.cfg.VolumeName, s.imagePath)
}

// writeChecksum digests the finalized image. It must run only after the
// image tool has reported success.
func (s *service) writeChecksum(ctx context.Context) error {
	s.recordPath = s.release.ChecksumPath(s.scratchDir)

	record, err := checksum.WriteRecord(s.recordPath, s.imagePath)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Wrote checksum record",
		"algorithm", checksum.Algorithm,
		"digest", record.Digest,
		"file", record.FileName)

	return nil
}

// publish renames the image and record from scratch into the output
// directory and removes the scratch tree. Until this stage completes, the
// published paths do not exist, so a failed run never leaves a half-built
// artifact where a consumer would look for one.
func (s *service) publish(_ context.Context) error {
	finalImage := s.release.ImagePath(s.cfg.OutputDir)
	finalRecord := s.release.ChecksumPath(s.cfg.OutputDir)

	if err := os.Rename(s.imagePath, finalImage); err != nil {
		return fmt.Errorf("publish image: %w", err)
	}

	if err := os.Rename(s.recordPath, finalRecord); err != nil {
		return fmt.Errorf("publish checksum record: %w", err)
	}

	if err := os.RemoveAll(s.scratchDir); err != nil {
		return fmt.Errorf("remove scratch directory: %w", err)
	}

	return nil
}
