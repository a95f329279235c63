//go:build windows

package gitcli

import (
	"os/exec"
	"syscall"
)

// setPlatformAttrs suppresses the console window that would otherwise
// flash up for every spawned git.exe on Windows, mirroring the desktop
// daemon's requirement that child processes are invisible to the user.
func setPlatformAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
