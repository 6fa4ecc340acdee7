//go:build !unix

package shell

import (
	"os"
	"os/exec"
)

const maxExtraFD = 16

func buildExternalCmd(path string, argv []string, fds FDTable) (*exec.Cmd, error) {
	cmd := exec.Command(path)
	cmd.Args = argv
	cmd.Stdin = fdFileOrDefault(fds, 0, os.Stdin)
	cmd.Stdout = fdFileOrDefault(fds, 1, os.Stdout)
	cmd.Stderr = fdFileOrDefault(fds, 2, os.Stderr)
	return cmd, nil
}

// setProcessGroup is a no-op: process-group based job control is a unix
// concept (see internal/jobcontrol).
func setProcessGroup(cmd *exec.Cmd, pgid int) {}

func fdFileOrDefault(fds FDTable, fd int, def *os.File) *os.File {
	f, ok := fds[fd]
	if !ok {
		return def
	}
	if f == closedFD {
		return nil
	}
	return f
}

func waitStatus(cmd *exec.Cmd, err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return miscFailureStatus
}

func (sh *Shell) jobControlActive() bool { return false }
