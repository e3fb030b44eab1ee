package artifact

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBaseNameDeterminism ensures naming is a pure function of its inputs.
func TestBaseNameDeterminism(t *testing.T) {
	t.Parallel()

	r := Release{
		AppName:      "OrchestraTerm",
		BinaryName:   "orchestraterm",
		Version:      "0.2.0",
		Architecture: "arm64",
	}

	require.Equal(t, "orchestraterm-0.2.0-macos-arm64", r.BaseName())
	require.Equal(t, r.BaseName(), r.BaseName())
	require.Equal(t, "orchestraterm-0.2.0-macos-arm64.dmg", r.ImageName())
	require.Equal(t, "orchestraterm-0.2.0-macos-arm64.sha256", r.ChecksumName())
	require.Equal(t, "OrchestraTerm.app", r.BundleName())
}

// TestPaths checks artifact paths are rooted in the provided directory.
func TestPaths(t *testing.T) {
	t.Parallel()

	r := Release{BinaryName: "orchestraterm", Version: "0.2.0", Architecture: "arm64"}

	require.Equal(t, filepath.Join("dist", r.ImageName()), r.ImagePath("dist"))
	require.Equal(t, filepath.Join("dist", r.ChecksumName()), r.ChecksumPath("dist"))
}

// TestNewUsesHostArchitecture pins the arch field to the running host.
func TestNewUsesHostArchitecture(t *testing.T) {
	t.Parallel()

	r := New("OrchestraTerm", "orchestraterm", "0.2.0")
	require.Equal(t, HostArchitecture(), r.Architecture)
	require.NotEmpty(t, r.Architecture)
}
