package tools

import "context"

// ImageResizer produces a square resized copy of a raster image.
type ImageResizer interface {
	// Resize writes a pixels x pixels copy of src to dst.
	Resize(ctx context.Context, src, dst string, pixels int) error
}

// IconComposer assembles an .iconset directory into a single .icns container.
type IconComposer interface {
	Compose(ctx context.Context, iconsetDir, icnsPath string) error
}

// CreateImageOptions describes one disk image creation request.
type CreateImageOptions struct {
	// SourceFolder is the fully populated staging root.
	SourceFolder string
	// VolumeName is the name shown when the image is mounted.
	VolumeName string
	// OutputPath is the .dmg destination, overwritten if present.
	OutputPath string
}

// ImageInfo is the structural metadata read back from a disk image.
// Field tags follow the plist keys emitted by `hdiutil imageinfo -plist`.
type ImageInfo struct {
	Format    string `plist:"Format"`
	ClassName string `plist:"Class Name"`

	SizeInformation struct {
		TotalBytes int64 `plist:"Total Bytes"`
	} `plist:"Size Information"`
}

// DiskImager creates compressed read-only disk images and reads their metadata.
type DiskImager interface {
	Create(ctx context.Context, opts CreateImageOptions) error
	Info(ctx context.Context, imagePath string) (*ImageInfo, error)
}

// FinderFlagger sets Finder attributes. All uses are cosmetic and best-effort.
type FinderFlagger interface {
	// MarkCustomIcon flags dir as carrying a custom volume icon.
	MarkCustomIcon(ctx context.Context, dir string) error
}

// Toolchain bundles the capabilities the pipeline consumes.
type Toolchain struct {
	Resizer  ImageResizer
	Composer IconComposer
	Imager   DiskImager
	Flagger  FinderFlagger
}

// Default returns the toolchain backed by the real macOS utilities.
func Default() *Toolchain {
	return &Toolchain{
		Resizer:  SipsResizer{},
		Composer: IconutilComposer{},
		Imager:   HdiutilImager{},
		Flagger:  SetFileFlagger{},
	}
}
