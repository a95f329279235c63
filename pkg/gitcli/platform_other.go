//go:build !windows

package gitcli

import "os/exec"

// setPlatformAttrs is a no-op on platforms without a console window to hide.
func setPlatformAttrs(cmd *exec.Cmd) {}
