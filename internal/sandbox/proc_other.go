//go:build !darwin && !linux

package sandbox

import (
	"os/exec"
	"time"
)

const pipeDrainDelay = 3 * time.Second

// setupProcessGroup is a no-op on platforms without session support; only
// the direct child can be signalled.
func setupProcessGroup(cmd *exec.Cmd) {
	cmd.WaitDelay = pipeDrainDelay
}

// terminateGroup has no graceful signal here; it kills the direct child.
func terminateGroup(cmd *exec.Cmd) error {
	return killGroup(cmd)
}

func killGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
