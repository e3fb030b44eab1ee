// Package checksum computes SHA-256 digests of release artifacts and
// persists them as single-line records compatible with `shasum -a 256 -c`.
// The record stores the artifact's base file name so the pair can be
// verified from any directory holding both files.
package checksum
