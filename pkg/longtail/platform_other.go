//go:build !windows

package longtail

import (
	"os"
	"os/exec"
)

func isWindows() bool { return false }

func setExecutableBit(path string) error {
	return os.Chmod(path, 0o755)
}

func hideWindowAttrs(cmd *exec.Cmd) {}
