package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orchestraterm/releaser/internal/artifact"
	"github.com/orchestraterm/releaser/internal/checksum"
	"github.com/orchestraterm/releaser/internal/config"
	"github.com/orchestraterm/releaser/internal/manifest"
	"github.com/orchestraterm/releaser/internal/tools"
)

// fakeResizer writes placeholder variant files.
type fakeResizer struct{}

func (fakeResizer) Resize(_ context.Context, _, dst string, _ int) error {
	return os.WriteFile(dst, []byte("png"), 0o644)
}

// failingResizer aborts the icon step.
type failingResizer struct{}

func (failingResizer) Resize(context.Context, string, string, int) error {
	return errors.New("sips exited 1")
}

// fakeComposer writes a placeholder container.
type fakeComposer struct{}

func (fakeComposer) Compose(_ context.Context, _, icnsPath string) error {
	return os.WriteFile(icnsPath, []byte("icns"), 0o644)
}

// fakeImager archives the staging root marker into a placeholder image.
type fakeImager struct {
	fail bool
}

func (f fakeImager) Create(_ context.Context, opts tools.CreateImageOptions) error {
	if f.fail {
		return errors.New("hdiutil exited 1")
	}

	return os.WriteFile(opts.OutputPath, []byte("dmg:"+opts.VolumeName), 0o644)
}

func (fakeImager) Info(context.Context, string) (*tools.ImageInfo, error) {
	return &tools.ImageInfo{}, nil
}

// fakeFlagger accepts every request.
type fakeFlagger struct{}

func (fakeFlagger) MarkCustomIcon(context.Context, string) error {
	return nil
}

func fakeToolchain(imagerFails bool) *tools.Toolchain {
	return &tools.Toolchain{
		Resizer:  fakeResizer{},
		Composer: fakeComposer{},
		Imager:   fakeImager{fail: imagerFails},
		Flagger:  fakeFlagger{},
	}
}

func passingGuard(context.Context) error {
	return nil
}

// testConfig lays out a fake project in dir: manifest, binary, master icon.
func testConfig(t *testing.T, dir, version string) *config.Config {
	t.Helper()

	manifestPath := filepath.Join(dir, "Cargo.toml")
	contents := fmt.Sprintf("[package]\nname = \"orchestraterm\"\nversion = %q\n", version)
	require.NoError(t, os.WriteFile(manifestPath, []byte(contents), 0o644))

	binaryPath := filepath.Join(dir, "orchestraterm")
	require.NoError(t, os.WriteFile(binaryPath, []byte("#!binary"), 0o755))

	iconPath := filepath.Join(dir, "icon_1024.png")
	require.NoError(t, os.WriteFile(iconPath, []byte("master"), 0o644))

	cfg := &config.Config{
		ManifestPath:   manifestPath,
		BinaryPath:     binaryPath,
		MasterIconPath: iconPath,
		OutputDir:      filepath.Join(dir, "dist"),
	}
	require.NoError(t, config.Validate(cfg))

	return cfg
}

// TestRunProducesArtifacts drives the full pipeline with fakes and checks
// the published image, the checksum record, and a clean output directory.
func TestRunProducesArtifacts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(t, dir, "0.2.0")

	svc := newService(cfg, fakeToolchain(false), passingGuard)

	imagePath, err := svc.Run(context.Background())
	require.NoError(t, err)

	release := artifact.New(cfg.AppName, cfg.BinaryName, "0.2.0")
	require.Equal(t, release.ImagePath(cfg.OutputDir), imagePath)
	require.FileExists(t, imagePath)

	recordPath := release.ChecksumPath(cfg.OutputDir)
	require.FileExists(t, recordPath)

	_, err = checksum.Verify(imagePath, recordPath)
	require.NoError(t, err)

	// No scratch leftovers after publication.
	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

// TestRunMissingManifestVersion aborts before anything is written under
// the output directory.
func TestRunMissingManifestVersion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(t, dir, "0.2.0")
	require.NoError(t, os.WriteFile(cfg.ManifestPath, []byte("[package]\nname = \"x\"\n"), 0o644))

	svc := newService(cfg, fakeToolchain(false), passingGuard)

	_, err := svc.Run(context.Background())
	require.ErrorIs(t, err, manifest.ErrVersionNotFound)
	require.NoDirExists(t, cfg.OutputDir)
}

// TestRunGuardFailureComesFirst surfaces environment errors before output exists.
func TestRunGuardFailureComesFirst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(t, dir, "0.2.0")

	guardErr := errors.New("unsupported host")
	svc := newService(cfg, fakeToolchain(false), func(context.Context) error { return guardErr })

	_, err := svc.Run(context.Background())
	require.ErrorIs(t, err, guardErr)
	require.Contains(t, err.Error(), `stage "environment"`)
	require.NoDirExists(t, cfg.OutputDir)
}

// TestRunMissingMasterIcon degrades to an icon-less release.
func TestRunMissingMasterIcon(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(t, dir, "0.2.0")
	require.NoError(t, os.Remove(cfg.MasterIconPath))

	svc := newService(cfg, fakeToolchain(false), passingGuard)

	imagePath, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.FileExists(t, imagePath)
}

// TestRunIconFailureIsFatal distinguishes a broken resize from a missing master.
func TestRunIconFailureIsFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(t, dir, "0.2.0")

	tc := fakeToolchain(false)
	tc.Resizer = failingResizer{}

	svc := newService(cfg, tc, passingGuard)

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), `stage "icon"`)
}

// TestRunMissingBinaryIsFatal reports the bundle stage.
func TestRunMissingBinaryIsFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(t, dir, "0.2.0")
	require.NoError(t, os.Remove(cfg.BinaryPath))

	svc := newService(cfg, fakeToolchain(false), passingGuard)

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), `stage "bundle"`)
}

// TestRunImageFailureLeavesNoArtifact ensures a failed image tool never
// publishes anything at the final paths.
func TestRunImageFailureLeavesNoArtifact(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(t, dir, "0.2.0")

	svc := newService(cfg, fakeToolchain(true), passingGuard)

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), `stage "image"`)

	release := artifact.New(cfg.AppName, cfg.BinaryName, "0.2.0")
	require.NoFileExists(t, release.ImagePath(cfg.OutputDir))
	require.NoFileExists(t, release.ChecksumPath(cfg.OutputDir))
}

// TestRunTwiceIsIdempotent repeats the build and expects identical
// descriptor bytes and a valid image both times.
func TestRunTwiceIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := testConfig(t, dir, "0.2.0")

	readDigest := func() string {
		svc := newService(cfg, fakeToolchain(false), passingGuard)

		imagePath, err := svc.Run(context.Background())
		require.NoError(t, err)
		require.FileExists(t, imagePath)

		release := artifact.New(cfg.AppName, cfg.BinaryName, "0.2.0")

		record, err := checksum.ReadRecord(release.ChecksumPath(cfg.OutputDir))
		require.NoError(t, err)

		return record.Digest
	}

	require.Equal(t, readDigest(), readDigest())
}
