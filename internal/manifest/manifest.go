package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// ErrVersionNotFound is returned when the manifest has no version line.
var ErrVersionNotFound = errors.New("no version line in build manifest")

// versionLinePattern matches a manifest line of the form: version = "X.Y.Z".
var versionLinePattern = regexp.MustCompile(`(?m)^\s*version\s*=\s*"([^"]+)"`)

// ResolveVersion reads the build manifest and returns the value of the first
// version line. A missing manifest or a manifest without a version line is a
// fatal configuration error for the caller.
func ResolveVersion(path string) (string, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read build manifest: %w", err)
	}

	match := versionLinePattern.FindSubmatch(contents)
	if match == nil {
		return "", fmt.Errorf("%s: %w", path, ErrVersionNotFound)
	}

	return string(match[1]), nil
}
