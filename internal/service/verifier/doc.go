// Package verifier independently re-validates a published release: both
// artifact files must exist at their derived paths, the image digest must
// match the persisted record, and the image metadata is read back for
// display. It shares no state with the build pipeline and can run on a
// machine holding nothing but the two artifact files.
package verifier
