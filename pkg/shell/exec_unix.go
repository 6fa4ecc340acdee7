//go:build unix

package shell

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/iusevoidbtw/sushi-go/internal/jobcontrol"
)

// maxExtraFD bounds how high a descriptor number the redirection table
// will plumb through exec.Cmd.ExtraFiles. Real shells support arbitrary
// descriptors; os/exec only exposes a contiguous block starting at fd 3,
// so anything beyond this is rejected with a diagnostic rather than
// silently misrouted.
const maxExtraFD = 16

// buildExternalCmd turns one pipeline stage into an *exec.Cmd wired to
// fds, ready for Start. Process-group placement is added separately by
// setProcessGroup, per spec §3.1's parent-authoritative assignment.
func buildExternalCmd(path string, argv []string, fds FDTable) (*exec.Cmd, error) {
	for fd := range fds {
		if fd > maxExtraFD {
			return nil, fmt.Errorf("%s: %d: descriptor above %d not supported", argv[0], fd, maxExtraFD)
		}
	}

	cmd := exec.Command(path)
	cmd.Args = argv

	cmd.Stdin = fdFileOrDefault(fds, 0, os.Stdin)
	cmd.Stdout = fdFileOrDefault(fds, 1, os.Stdout)
	cmd.Stderr = fdFileOrDefault(fds, 2, os.Stderr)

	var extra []*os.File
	for fd := 3; fd <= maxExtraFD; fd++ {
		f, ok := fds[fd]
		if !ok {
			continue
		}
		for len(extra) < fd-3 {
			extra = append(extra, nil)
		}
		if f == closedFD {
			extra = append(extra, nil)
		} else {
			extra = append(extra, f)
		}
	}
	cmd.ExtraFiles = extra

	return cmd, nil
}

// setProcessGroup assigns cmd to pgid before it starts (or, when pgid is
// 0, makes it the leader of a new group it will head). See spec §3.1.
func setProcessGroup(cmd *exec.Cmd, pgid int) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: pgid}
}

// fdFileOrDefault returns the file bound to fd in the table, def if fd is
// unbound, or nil if fd was explicitly closed.
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

// waitStatus extracts a POSIX-ish exit status from a finished external
// command, applying the shell's signal-exit convention (status.go).
func waitStatus(cmd *exec.Cmd, err error) int {
	if err == nil {
		return 0
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		return miscFailureStatus
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return signalExitBase + int(ws.Signal())
	}
	return exitErr.ExitCode()
}

// jobControlActive reports whether job control is usable right now: the
// platform supports it and the shell itself owns the terminal.
func (sh *Shell) jobControlActive() bool {
	return jobcontrol.Supported && sh.interactive && sh.termFD >= 0
}
