// Package config holds the release settings shared by the build and verify
// commands: application identity, input paths, and the output directory.
// Every field has a default, so the releaser runs without a settings file;
// a releaser.yaml in the working directory overrides selectively.
package config
