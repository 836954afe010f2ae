//go:build !windows

// Package process terminates browser process trees.
package process

import "syscall"

// KillTree sends SIGKILL to the process group led by pid. Errors are
// ignored; the launcher kills the main process as well.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
