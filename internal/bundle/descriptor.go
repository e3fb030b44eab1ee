package bundle

import (
	"fmt"

	"howett.net/plist"
)

// infoPlist is the fixed descriptor key set. Key names are bit-exact:
// the OS matches on them literally.
type infoPlist struct {
	Name                 string `plist:"CFBundleName"`
	Identifier           string `plist:"CFBundleIdentifier"`
	Version              string `plist:"CFBundleVersion"`
	ShortVersion         string `plist:"CFBundleShortVersionString"`
	Executable           string `plist:"CFBundleExecutable"`
	IconFile             string `plist:"CFBundleIconFile"`
	MinimumSystemVersion string `plist:"LSMinimumSystemVersion"`
}

// renderDescriptor produces the Info.plist bytes for the spec.
// The icon reference is emitted even when no container was produced;
// a dangling reference is harmless at runtime and keeps the key set fixed.
func renderDescriptor(spec Spec) ([]byte, error) {
	descriptor := infoPlist{
		Name:                 spec.AppName,
		Identifier:           spec.BundleIdentifier,
		Version:              spec.Version,
		ShortVersion:         spec.Version,
		Executable:           spec.ExecutableName,
		IconFile:             spec.IconFileName(),
		MinimumSystemVersion: spec.MinimumSystemVersion,
	}

	contents, err := plist.MarshalIndent(descriptor, plist.XMLFormat, "\t")
	if err != nil {
		return nil, fmt.Errorf("render descriptor: %w", err)
	}

	return contents, nil
}
