//go:build unix

// Package jobcontrol wraps the terminal ownership and process group calls
// needed to run pipelines with proper foreground/background semantics.
package jobcontrol

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// Supported reports whether this platform has a controlling terminal API
// to drive. On unix it always does; the fallback build reports false.
const Supported = true

// IgnoreTTOU makes the process immune to SIGTTOU, raised when a
// background process group tries to adjust terminal settings or when a
// non-foreground pgid calls Tcsetpgrp. The interactive loop lives in the
// shell's own process group and reassigns the terminal constantly, so it
// must not be stopped by the kernel for doing so.
func IgnoreTTOU() {
	signal.Ignore(syscall.SIGTTOU)
}

// Tcgetpgrp returns the foreground process group of the terminal attached
// to fd.
func Tcgetpgrp(fd int) (int, error) {
	return unix.IoctlGetInt(fd, unix.TIOCGPGRP)
}

// Tcsetpgrp makes pgid the foreground process group of the terminal
// attached to fd.
func Tcsetpgrp(fd int, pgid int) error {
	return unix.IoctlSetPointerInt(fd, unix.TIOCSPGRP, pgid)
}

// Setpgid assigns pid to process group pgid. Called by the parent, before
// the child has necessarily had a chance to call setpgid on itself, which
// closes the discovery race described by the pipeline executor.
func Setpgid(pid, pgid int) error {
	return syscall.Setpgid(pid, pgid)
}

// Getpgrp returns the calling process's own process group id.
func Getpgrp() int {
	return unix.Getpgrp()
}

// Getpid returns the calling process's id.
func Getpid() int {
	return os.Getpid()
}
