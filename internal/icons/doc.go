// Package icons derives the fixed set of resolution variants from one
// master image and assembles them into an .icns container. The master is
// expected to be a square 1024x1024 raster so the largest variant never
// upscales. A missing master degrades to an icon-less release; a failed
// variant aborts the whole icon step, so a partial container is never
// shipped.
package icons
