//go:build !unix

package jobcontrol

import "errors"

// Supported reports whether this platform has a controlling terminal API
// to drive.
const Supported = false

var errUnsupported = errors.New("jobcontrol: not supported on this platform")

func IgnoreTTOU() {}

func Tcgetpgrp(fd int) (int, error) { return 0, errUnsupported }

func Tcsetpgrp(fd int, pgid int) error { return errUnsupported }

func Setpgid(pid, pgid int) error { return errUnsupported }

func Getpgrp() int { return 0 }

func Getpid() int { return 0 }
