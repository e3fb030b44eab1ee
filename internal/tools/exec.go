package tools

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"howett.net/plist"
)

// SipsResizer resizes images with the system `sips` utility.
type SipsResizer struct{}

// Resize writes a pixels x pixels copy of src to dst.
// The master image is square, so forcing both dimensions never distorts.
func (SipsResizer) Resize(ctx context.Context, src, dst string, pixels int) error {
	size := strconv.Itoa(pixels)

	cmd := exec.CommandContext(ctx, "sips", "-z", size, size, src, "--out", dst)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("sips resize to %s: %s: %w", size, string(out), err)
	}

	return nil
}

// IconutilComposer assembles icon containers with the system `iconutil` utility.
type IconutilComposer struct{}

// Compose converts an .iconset directory into one .icns file.
func (IconutilComposer) Compose(ctx context.Context, iconsetDir, icnsPath string) error {
	cmd := exec.CommandContext(ctx, "iconutil", "-c", "icns", iconsetDir, "-o", icnsPath)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("iconutil compose: %s: %w", string(out), err)
	}

	return nil
}

// HdiutilImager creates and inspects disk images with the system `hdiutil` utility.
type HdiutilImager struct{}

// Create produces a compressed (UDZO) read-only image from the staging root,
// overwriting any file already at the output path.
func (HdiutilImager) Create(ctx context.Context, opts CreateImageOptions) error {
	cmd := exec.CommandContext(ctx, "hdiutil", "create",
		"-volname", opts.VolumeName,
		"-srcfolder", opts.SourceFolder,
		"-ov",
		"-format", "UDZO",
		opts.OutputPath,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("hdiutil create: %s: %w", string(out), err)
	}

	return nil
}

// Info reads structural metadata from an existing image.
func (HdiutilImager) Info(ctx context.Context, imagePath string) (*ImageInfo, error) {
	cmd := exec.CommandContext(ctx, "hdiutil", "imageinfo", "-plist", imagePath)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("hdiutil imageinfo: %w", err)
	}

	var info ImageInfo
	if _, err := plist.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("parse imageinfo plist: %w", err)
	}

	return &info, nil
}

// SetFileFlagger sets Finder attributes with the `SetFile` developer tool.
type SetFileFlagger struct{}

// MarkCustomIcon sets the custom-icon Finder attribute on dir.
// SetFile ships with the Xcode command line tools and may be absent;
// callers treat any error here as cosmetic.
func (SetFileFlagger) MarkCustomIcon(ctx context.Context, dir string) error {
	if _, err := exec.LookPath("SetFile"); err != nil {
		return fmt.Errorf("SetFile not available: %w", err)
	}

	cmd := exec.CommandContext(ctx, "SetFile", "-a", "C", dir)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("SetFile: %s: %w", string(out), err)
	}

	return nil
}
