//go:build windows

// Package process terminates browser process trees.
package process

import (
	"os/exec"
	"strconv"
)

// KillTree force-kills pid and its children with taskkill. Errors are
// ignored; the launcher kills the main process as well.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}
