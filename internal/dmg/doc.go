// Package dmg stages a completed bundle for disk-image conversion and
// drives the image creation tool. The staging root carries the bundle
// copy, an Applications symlink for drag-to-install, and an optional
// hidden volume icon.
package dmg
