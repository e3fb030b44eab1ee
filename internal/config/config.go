package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the release parameters shared by the build and verify commands.
type Config struct {
	// AppName is the display name of the application bundle.
	AppName string `yaml:"app_name"`
	// BinaryName is the executable name inside the bundle and the
	// artifact base-name prefix.
	BinaryName string `yaml:"binary_name"`
	// BundleIdentifier is the reverse-DNS bundle identifier. It is
	// version-independent and must stay stable across releases.
	BundleIdentifier string `yaml:"bundle_identifier"`
	// ManifestPath is the build manifest the release version is read from.
	ManifestPath string `yaml:"manifest"`
	// BinaryPath is the pre-built executable to package.
	BinaryPath string `yaml:"binary"`
	// MasterIconPath is the 1024x1024 master icon image. Optional:
	// a missing file produces an icon-less bundle.
	MasterIconPath string `yaml:"master_icon"`
	// OutputDir receives the final .dmg and .sha256 artifacts.
	OutputDir string `yaml:"output_dir"`
	// VolumeName is the name of the mounted disk image volume.
	VolumeName string `yaml:"volume_name"`
	// MinimumSystemVersion is the LSMinimumSystemVersion descriptor value.
	MinimumSystemVersion string `yaml:"minimum_system_version"`
}

const (
	// DefaultConfigFilename is the default filename for release settings.
	DefaultConfigFilename = "releaser.yaml"

	// DefaultAppName is the bundle display name.
	DefaultAppName = "OrchestraTerm"

	// DefaultBinaryName is the packaged executable name.
	DefaultBinaryName = "orchestraterm"

	// DefaultBundleIdentifier identifies the bundle to the OS.
	DefaultBundleIdentifier = "com.orchestraterm.app"

	// DefaultManifestPath is where the release version is resolved from.
	DefaultManifestPath = "Cargo.toml"

	// DefaultBinaryPath is the release build output of the application.
	DefaultBinaryPath = "target/release/orchestraterm"

	// DefaultMasterIconPath is the master icon image.
	DefaultMasterIconPath = "assets/icon_1024.png"

	// DefaultOutputDir receives release artifacts.
	DefaultOutputDir = "dist"

	// DefaultMinimumSystemVersion is the oldest supported macOS release.
	DefaultMinimumSystemVersion = "11.0"

	// DefaultFilePermissions is the default file permission for settings files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errBadBundleIdentifier is returned for malformed bundle identifiers.
	errBadBundleIdentifier = errors.New("bundle identifier must be a reverse-DNS name")
)

// Load reads configuration from the provided path and validates essential fields.
// A missing file at the default path yields the built-in defaults;
// a missing file at an explicitly provided path is an error.
func Load(path string) (*Config, error) {
	usingDefaultPath := path == "" || path == DefaultConfigFilename
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) && usingDefaultPath {
		cfg := new(Config)
		if err := Validate(cfg); err != nil {
			return nil, err
		}

		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults for unset fields and checks the rest for sanity.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.AppName == "" {
		cfg.AppName = DefaultAppName
	}

	if cfg.BinaryName == "" {
		cfg.BinaryName = DefaultBinaryName
	}

	if cfg.BundleIdentifier == "" {
		cfg.BundleIdentifier = DefaultBundleIdentifier
	}

	if cfg.ManifestPath == "" {
		cfg.ManifestPath = DefaultManifestPath
	}

	if cfg.BinaryPath == "" {
		cfg.BinaryPath = DefaultBinaryPath
	}

	if cfg.MasterIconPath == "" {
		cfg.MasterIconPath = DefaultMasterIconPath
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	if cfg.VolumeName == "" {
		cfg.VolumeName = cfg.AppName
	}

	if cfg.MinimumSystemVersion == "" {
		cfg.MinimumSystemVersion = DefaultMinimumSystemVersion
	}

	if !strings.Contains(cfg.BundleIdentifier, ".") || strings.ContainsAny(cfg.BundleIdentifier, " \t") {
		return fmt.Errorf("%w: %q", errBadBundleIdentifier, cfg.BundleIdentifier)
	}

	return nil
}
