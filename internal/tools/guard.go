package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-ps"

	"github.com/orchestraterm/releaser/internal/logger"
)

// supportedOS is the only host OS the pipeline runs on.
const supportedOS = "darwin"

// requiredTools must be on PATH for a build to proceed. SetFile is not
// listed: the Finder flag it serves is best-effort.
//
//nolint:gochecknoglobals // Static tool list shared by guard and docs.
var requiredTools = []string{"sips", "iconutil", "hdiutil"}

var (
	// ErrUnsupportedPlatform is returned on any host that is not macOS.
	ErrUnsupportedPlatform = errors.New("unsupported platform, macOS required")

	// ErrToolMissing is returned when a required external utility is absent.
	ErrToolMissing = errors.New("required tool not found")

	// ErrAlreadyRunning is returned when another releaser process is active.
	// Two concurrent releases against one output directory would corrupt
	// each other, so the guard refuses up front.
	ErrAlreadyRunning = errors.New("another release is already running")
)

// CheckEnvironment validates the host before any output is produced:
// the OS must be macOS, the required utilities must be resolvable, and no
// other releaser process may be running.
func CheckEnvironment(ctx context.Context) error {
	if runtime.GOOS != supportedOS {
		return fmt.Errorf("%w: running on %s", ErrUnsupportedPlatform, runtime.GOOS)
	}

	for _, tool := range requiredTools {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("%w: %s", ErrToolMissing, tool)
		}
	}

	running, err := anotherInstanceRunning()
	if err != nil {
		// Process enumeration failing is not worth aborting a release over.
		logger.Warnf(ctx, "unable to scan processes for concurrent releases: %v", err)
		return nil
	}

	if running {
		return ErrAlreadyRunning
	}

	return nil
}

// anotherInstanceRunning reports whether a process with this executable's
// name, other than ourselves, is currently alive.
func anotherInstanceRunning() (bool, error) {
	self, err := os.Executable()
	if err != nil {
		return false, err
	}

	selfName := filepath.Base(self)
	selfPID := os.Getpid()

	processes, err := ps.Processes()
	if err != nil {
		return false, err
	}

	for _, process := range processes {
		if process.Pid() == selfPID {
			continue
		}

		if process.Executable() == selfName {
			return true, nil
		}
	}

	return false, nil
}
