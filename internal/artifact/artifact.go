package artifact

import (
	"fmt"
	"path/filepath"
	"runtime"
)

const (
	// platformTag marks the only supported target platform in artifact names.
	platformTag = "macos"

	// ImageExtension is the disk image file extension.
	ImageExtension = ".dmg"

	// ChecksumExtension is the checksum record file extension.
	ChecksumExtension = ".sha256"
)

// Release identifies one release artifact.
type Release struct {
	// AppName is the bundle display name, e.g. "OrchestraTerm".
	AppName string
	// BinaryName is the executable name, e.g. "orchestraterm".
	BinaryName string
	// Version is the semantic version resolved from the build manifest.
	Version string
	// Architecture is the host CPU architecture, e.g. "arm64".
	Architecture string
}

// New builds a Release for the current host architecture.
func New(appName, binaryName, version string) Release {
	return Release{
		AppName:      appName,
		BinaryName:   binaryName,
		Version:      version,
		Architecture: HostArchitecture(),
	}
}

// HostArchitecture reports the CPU architecture tag used in artifact names.
func HostArchitecture() string {
	return runtime.GOARCH
}

// BaseName returns the artifact base name, e.g. "orchestraterm-0.2.0-macos-arm64".
func (r Release) BaseName() string {
	return fmt.Sprintf("%s-%s-%s-%s", r.BinaryName, r.Version, platformTag, r.Architecture)
}

// ImageName returns the disk image file name.
func (r Release) ImageName() string {
	return r.BaseName() + ImageExtension
}

// ChecksumName returns the checksum record file name.
func (r Release) ChecksumName() string {
	return r.BaseName() + ChecksumExtension
}

// ImagePath returns the disk image path inside dir.
func (r Release) ImagePath(dir string) string {
	return filepath.Join(dir, r.ImageName())
}

// ChecksumPath returns the checksum record path inside dir.
func (r Release) ChecksumPath(dir string) string {
	return filepath.Join(dir, r.ChecksumName())
}

// BundleName returns the application bundle directory name.
func (r Release) BundleName() string {
	return r.AppName + ".app"
}
