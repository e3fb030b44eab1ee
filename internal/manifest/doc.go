// Package manifest resolves the release version from the application's
// build manifest. Only the first `version = "X.Y.Z"` line counts; the rest
// of the manifest is opaque to the releaser.
package manifest
