package dmg

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/orchestraterm/releaser/internal/logger"
	"github.com/orchestraterm/releaser/internal/tools"
)

const (
	// applicationsDir is the system-wide install location the staging
	// symlink points at.
	applicationsDir = "/Applications"

	// applicationsLinkName is the symlink name shown on the mounted image.
	applicationsLinkName = "Applications"

	// volumeIconName is the hidden volume icon file Finder looks for.
	volumeIconName = ".VolumeIcon.icns"

	// stagingDirMode is used for the staging root.
	stagingDirMode os.FileMode = 0o755

	// volumeIconFileMode is used for the copied volume icon.
	volumeIconFileMode os.FileMode = 0o644
)

// StageSpec describes the content of one staging root.
type StageSpec struct {
	// BundlePath is the completed application bundle.
	BundlePath string
	// IconPath is the .icns used as the volume icon; empty skips it.
	IconPath string
}

// Stage populates stagingDir with a copy of the bundle, the Applications
// symlink, and (when an icon exists) the hidden volume icon. The Finder
// custom-icon flag is cosmetic: its failure is logged and tolerated.
func Stage(ctx context.Context, spec StageSpec, stagingDir string, flagger tools.FinderFlagger) error {
	if err := os.MkdirAll(stagingDir, stagingDirMode); err != nil {
		return fmt.Errorf("create staging root: %w", err)
	}

	bundleDst := filepath.Join(stagingDir, filepath.Base(spec.BundlePath))
	if err := os.CopyFS(bundleDst, os.DirFS(spec.BundlePath)); err != nil {
		return fmt.Errorf("copy bundle into staging root: %w", err)
	}

	linkPath := filepath.Join(stagingDir, applicationsLinkName)
	if err := os.Symlink(applicationsDir, linkPath); err != nil {
		return fmt.Errorf("create install shortcut: %w", err)
	}

	if spec.IconPath == "" {
		return nil
	}

	iconDst := filepath.Join(stagingDir, volumeIconName)
	if err := copyFile(spec.IconPath, iconDst, volumeIconFileMode); err != nil {
		return fmt.Errorf("copy volume icon: %w", err)
	}

	if err := flagger.MarkCustomIcon(ctx, stagingDir); err != nil {
		logger.Warnf(ctx, "unable to mark staging root with a custom icon: %v", err)
	}

	return nil
}

// Create converts the staging root into one compressed read-only image,
// overwriting any file at the output path. A tool failure is fatal:
// whatever is on disk at the output path must not be trusted.
func Create(ctx context.Context, imager tools.DiskImager, stagingDir, volumeName, outputPath string) error {
	logger.InfoKV(ctx, "Creating disk image", "volume", volumeName, "path", outputPath)

	err := imager.Create(ctx, tools.CreateImageOptions{
		SourceFolder: stagingDir,
		VolumeName:   volumeName,
		OutputPath:   outputPath,
	})
	if err != nil {
		return fmt.Errorf("create disk image: %w", err)
	}

	return nil
}

// copyFile copies src to dst with the given mode, replacing dst.
func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}

	// Best-effort close, the file is read-only here.
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(filepath.Clean(dst), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()

		return err
	}

	return out.Close()
}
