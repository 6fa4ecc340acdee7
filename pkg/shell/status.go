package shell

// Exit status conventions, grounded on original_source/sushi.c's
// MISC_FAILURE_STATUS and SIGNAL_EXITSTATUS constants.
const (
	// notFoundStatus is returned when argv[0] cannot be located (spec §4.6).
	notFoundStatus = 127
	// notExecutableStatus is returned when argv[0] is found but cannot be
	// executed (permission, not a regular file, exec format error, ...).
	notExecutableStatus = 126
	// miscFailureStatus covers internal shell failures that are not the
	// fault of the command being run: bad redirections, fork failures,
	// malformed option arguments.
	miscFailureStatus = 125
	// signalExitBase is added to a signal number to report "killed by
	// signal N" as an exit status. original_source uses 384 rather than
	// the more common 128+N; kept as-is since scripts probing $? after a
	// killed pipeline stage are part of this shell's observable contract.
	signalExitBase = 384
)
