package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/orchestraterm/releaser/internal/logger"
)

const (
	// executableFileMode marks the installed binary runnable.
	executableFileMode os.FileMode = 0o755

	// bundleDirMode is used for every directory inside the bundle.
	bundleDirMode os.FileMode = 0o755

	// descriptorFileMode is used for the rendered Info.plist.
	descriptorFileMode os.FileMode = 0o644
)

var (
	// ErrBinaryMissing is returned when the pre-built binary is absent.
	ErrBinaryMissing = errors.New("source binary not found")

	// errNotRunnable is returned when the installed executable lost its
	// execute permission.
	errNotRunnable = errors.New("bundle executable is not runnable")
)

// Spec describes one bundle to assemble.
type Spec struct {
	// AppName is the bundle display name; the bundle directory is <AppName>.app.
	AppName string
	// BundleIdentifier is the stable reverse-DNS identifier.
	BundleIdentifier string
	// Version is used for both the long and short descriptor version keys.
	Version string
	// ExecutableName is the binary name inside Contents/MacOS.
	ExecutableName string
	// BinaryPath is the pre-built binary to install.
	BinaryPath string
	// IconPath is the .icns container to embed; empty means no icon was
	// produced, and the descriptor's icon reference dangles by design.
	IconPath string
	// MinimumSystemVersion is the oldest supported macOS release.
	MinimumSystemVersion string
}

// IconFileName returns the icon container name referenced by the descriptor.
func (s Spec) IconFileName() string {
	return s.ExecutableName + ".icns"
}

// Assemble builds the bundle under dir and returns its path.
// A missing source binary is fatal; every subsequent failure propagates.
func Assemble(ctx context.Context, spec Spec, dir string) (string, error) {
	if _, err := os.Stat(spec.BinaryPath); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrBinaryMissing, spec.BinaryPath)
	} else if err != nil {
		return "", fmt.Errorf("stat source binary: %w", err)
	}

	bundlePath := filepath.Join(dir, spec.AppName+".app")
	macOSDir := filepath.Join(bundlePath, "Contents", "MacOS")
	resourcesDir := filepath.Join(bundlePath, "Contents", "Resources")

	for _, d := range []string{macOSDir, resourcesDir} {
		if err := os.MkdirAll(d, bundleDirMode); err != nil {
			return "", fmt.Errorf("create bundle skeleton: %w", err)
		}
	}

	executablePath := filepath.Join(macOSDir, spec.ExecutableName)
	if err := copyFile(spec.BinaryPath, executablePath, executableFileMode); err != nil {
		return "", fmt.Errorf("install binary: %w", err)
	}

	if spec.IconPath != "" {
		iconDst := filepath.Join(resourcesDir, spec.IconFileName())
		if err := copyFile(spec.IconPath, iconDst, descriptorFileMode); err != nil {
			return "", fmt.Errorf("embed icon container: %w", err)
		}
	}

	descriptor, err := renderDescriptor(spec)
	if err != nil {
		return "", err
	}

	descriptorPath := filepath.Join(bundlePath, "Contents", "Info.plist")
	if err := os.WriteFile(descriptorPath, descriptor, descriptorFileMode); err != nil {
		return "", fmt.Errorf("write descriptor: %w", err)
	}

	logger.InfoKV(ctx, "Assembled application bundle", "path", bundlePath, "icon", spec.IconPath != "")

	return bundlePath, nil
}

// VerifyExecutable confirms the bundle's executable exists and is runnable.
// The image steps must not proceed against a bundle that fails this.
func VerifyExecutable(bundlePath, executableName string) error {
	executablePath := filepath.Join(bundlePath, "Contents", "MacOS", executableName)

	info, err := os.Stat(executablePath)
	if err != nil {
		return fmt.Errorf("bundle executable: %w", err)
	}

	if info.Mode()&0o111 == 0 {
		return fmt.Errorf("%s: %w", executablePath, errNotRunnable)
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
