//go:build !unix

package gtp

import (
	"errors"
	"os"
	"os/exec"
)

func setProcessGroup(cmd *exec.Cmd) {}

func terminate(proc *os.Process) error {
	return kill(proc)
}

func kill(proc *os.Process) error {
	err := proc.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}
