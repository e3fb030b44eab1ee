package icons

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/orchestraterm/releaser/internal/logger"
	"github.com/orchestraterm/releaser/internal/tools"
)

// ErrMasterMissing is returned when the master image does not exist.
// The pipeline treats it as a non-fatal signal to skip icon generation.
var ErrMasterMissing = errors.New("master icon image not found")

// iconsetDirMode matches the permissions of other generated directories.
const iconsetDirMode os.FileMode = 0o755

// Variant is one entry of the icon container: a file name inside the
// .iconset directory and the pixel edge length it is rendered at.
type Variant struct {
	Name   string
	Pixels int
}

// Variants returns the ten required resolution variants, the conventional
// base / @2x pairing for point sizes 16, 32, 128, 256 and 512.
func Variants() []Variant {
	return []Variant{
		{Name: "icon_16x16.png", Pixels: 16},
		{Name: "icon_16x16@2x.png", Pixels: 32},
		{Name: "icon_32x32.png", Pixels: 32},
		{Name: "icon_32x32@2x.png", Pixels: 64},
		{Name: "icon_128x128.png", Pixels: 128},
		{Name: "icon_128x128@2x.png", Pixels: 256},
		{Name: "icon_256x256.png", Pixels: 256},
		{Name: "icon_256x256@2x.png", Pixels: 512},
		{Name: "icon_512x512.png", Pixels: 512},
		{Name: "icon_512x512@2x.png", Pixels: 1024},
	}
}

// Builder assembles icon containers through injected resize/compose tools.
type Builder struct {
	Resizer  tools.ImageResizer
	Composer tools.IconComposer
}

// Build renders every variant of masterPath into a fresh .iconset under
// workDir and composes the container at workDir/<baseName>.icns.
// Returns ErrMasterMissing when the master image is absent. Any variant
// failure fails the whole step.
func (b Builder) Build(ctx context.Context, masterPath, workDir, baseName string) (string, error) {
	if _, err := os.Stat(masterPath); errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", masterPath, ErrMasterMissing)
	} else if err != nil {
		return "", fmt.Errorf("stat master icon: %w", err)
	}

	iconsetDir := filepath.Join(workDir, baseName+".iconset")
	if err := os.MkdirAll(iconsetDir, iconsetDirMode); err != nil {
		return "", fmt.Errorf("create iconset directory: %w", err)
	}

	variants := Variants()
	for _, variant := range variants {
		dst := filepath.Join(iconsetDir, variant.Name)
		if err := b.Resizer.Resize(ctx, masterPath, dst, variant.Pixels); err != nil {
			return "", fmt.Errorf("render variant %s: %w", variant.Name, err)
		}
	}

	// Every required variant must exist before composing; a container
	// missing entries would be worse than no container at all.
	for _, variant := range variants {
		if _, err := os.Stat(filepath.Join(iconsetDir, variant.Name)); err != nil {
			return "", fmt.Errorf("variant %s missing after render: %w", variant.Name, err)
		}
	}

	icnsPath := filepath.Join(workDir, baseName+".icns")
	if err := b.Composer.Compose(ctx, iconsetDir, icnsPath); err != nil {
		return "", fmt.Errorf("compose icon container: %w", err)
	}

	logger.InfoKV(ctx, "Assembled icon container", "path", icnsPath, "variants", len(variants))

	return icnsPath, nil
}
