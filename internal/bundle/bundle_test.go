package bundle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

func testSpec(t *testing.T, iconPath string) Spec {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "orchestraterm")
	require.NoError(t, os.WriteFile(binaryPath, []byte("#!binary"), 0o755))

	return Spec{
		AppName:              "OrchestraTerm",
		BundleIdentifier:     "com.orchestraterm.app",
		Version:              "0.2.0",
		ExecutableName:       "orchestraterm",
		BinaryPath:           binaryPath,
		IconPath:             iconPath,
		MinimumSystemVersion: "11.0",
	}
}

// TestAssembleLayout checks the three fixed bundle members and the
// runnable bit on the installed executable.
func TestAssembleLayout(t *testing.T) {
	t.Parallel()

	iconPath := filepath.Join(t.TempDir(), "orchestraterm.icns")
	require.NoError(t, os.WriteFile(iconPath, []byte("icns"), 0o644))

	dir := t.TempDir()

	bundlePath, err := Assemble(context.Background(), testSpec(t, iconPath), dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "OrchestraTerm.app"), bundlePath)

	require.FileExists(t, filepath.Join(bundlePath, "Contents", "MacOS", "orchestraterm"))
	require.FileExists(t, filepath.Join(bundlePath, "Contents", "Resources", "orchestraterm.icns"))
	require.FileExists(t, filepath.Join(bundlePath, "Contents", "Info.plist"))

	require.NoError(t, VerifyExecutable(bundlePath, "orchestraterm"))

	info, err := os.Stat(filepath.Join(bundlePath, "Contents", "MacOS", "orchestraterm"))
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&0o111)
}

// TestDescriptorKeys decodes the rendered descriptor and pins the exact key set.
func TestDescriptorKeys(t *testing.T) {
	t.Parallel()

	bundlePath, err := Assemble(context.Background(), testSpec(t, ""), t.TempDir())
	require.NoError(t, err)

	contents, err := os.ReadFile(filepath.Join(bundlePath, "Contents", "Info.plist"))
	require.NoError(t, err)

	var decoded map[string]any
	_, err = plist.Unmarshal(contents, &decoded)
	require.NoError(t, err)

	require.Equal(t, map[string]any{
		"CFBundleName":               "OrchestraTerm",
		"CFBundleIdentifier":         "com.orchestraterm.app",
		"CFBundleVersion":            "0.2.0",
		"CFBundleShortVersionString": "0.2.0",
		"CFBundleExecutable":         "orchestraterm",
		"CFBundleIconFile":           "orchestraterm.icns",
		"LSMinimumSystemVersion":     "11.0",
	}, decoded)
}

// TestAssembleDeterministic ensures two assemblies of the same spec produce
// byte-identical descriptors.
func TestAssembleDeterministic(t *testing.T) {
	t.Parallel()

	spec := testSpec(t, "")

	first, err := Assemble(context.Background(), spec, t.TempDir())
	require.NoError(t, err)

	second, err := Assemble(context.Background(), spec, t.TempDir())
	require.NoError(t, err)

	a, err := os.ReadFile(filepath.Join(first, "Contents", "Info.plist"))
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(second, "Contents", "Info.plist"))
	require.NoError(t, err)

	require.Equal(t, a, b)
}

// TestAssembleWithoutIcon still emits the icon reference in the descriptor.
func TestAssembleWithoutIcon(t *testing.T) {
	t.Parallel()

	bundlePath, err := Assemble(context.Background(), testSpec(t, ""), t.TempDir())
	require.NoError(t, err)

	require.NoFileExists(t, filepath.Join(bundlePath, "Contents", "Resources", "orchestraterm.icns"))

	contents, err := os.ReadFile(filepath.Join(bundlePath, "Contents", "Info.plist"))
	require.NoError(t, err)
	require.Contains(t, string(contents), "orchestraterm.icns")
}

// TestAssembleMissingBinary is a fatal configuration error.
func TestAssembleMissingBinary(t *testing.T) {
	t.Parallel()

	spec := testSpec(t, "")
	spec.BinaryPath = filepath.Join(t.TempDir(), "absent")

	_, err := Assemble(context.Background(), spec, t.TempDir())
	require.ErrorIs(t, err, ErrBinaryMissing)
}

// TestVerifyExecutableRejectsStripped catches a lost execute bit.
func TestVerifyExecutableRejectsStripped(t *testing.T) {
	t.Parallel()

	bundlePath, err := Assemble(context.Background(), testSpec(t, ""), t.TempDir())
	require.NoError(t, err)

	executablePath := filepath.Join(bundlePath, "Contents", "MacOS", "orchestraterm")
	require.NoError(t, os.Chmod(executablePath, 0o644))

	require.Error(t, VerifyExecutable(bundlePath, "orchestraterm"))
	require.Error(t, VerifyExecutable(bundlePath, "other"))
}
