//go:build darwin || linux

package sandbox

import (
	"errors"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// pipeDrainDelay bounds how long Wait blocks on pipe reads after the
// process group has been killed. Orphaned grandchildren can otherwise hold
// stdout/stderr open indefinitely.
const pipeDrainDelay = 3 * time.Second

// setupProcessGroup puts the child in its own session so signals reach the
// whole process tree, grandchildren included.
func setupProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setsid = true
	cmd.WaitDelay = pipeDrainDelay
}

// signalGroup sends sig to the child's entire process group. A process
// that is already gone is not an error.
func signalGroup(cmd *exec.Cmd, sig unix.Signal) error {
	if cmd.Process == nil {
		return nil
	}
	pid := cmd.Process.Pid
	// kill(-1) would signal every process the user owns and kill(0) the
	// caller's own group. Treat invalid PIDs as already-done.
	if pid <= 1 {
		return nil
	}
	if err := unix.Kill(-pid, sig); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return nil
		}
		return err
	}
	return nil
}

// terminateGroup sends the graceful-terminate signal.
func terminateGroup(cmd *exec.Cmd) error {
	return signalGroup(cmd, unix.SIGTERM)
}

// killGroup sends the forceful-kill signal.
func killGroup(cmd *exec.Cmd) error {
	return signalGroup(cmd, unix.SIGKILL)
}
