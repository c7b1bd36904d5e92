//go:build unix

package gtp

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminate sends SIGTERM to the engine's process group.
func terminate(proc *os.Process) error {
	return signalGroup(proc, unix.SIGTERM)
}

// kill sends SIGKILL to the engine's process group.
func kill(proc *os.Process) error {
	return signalGroup(proc, unix.SIGKILL)
}

// signalGroup signals the process group led by proc, returning nil if it
// has already exited.
func signalGroup(proc *os.Process, sig unix.Signal) error {
	err := unix.Kill(-proc.Pid, sig)
	if errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}
