package shell

import (
	"fmt"
	"os"
	"path/filepath"
)

// FDTable maps a file descriptor number to the *os.File backing it. It
// models the child's descriptor table well enough to express dup
// ("N<&M") and close ("N>&-") forms in addition to plain file
// redirection, without requiring a real fork+dup2 on the shell's own
// process.
type FDTable map[int]*os.File

// closedFD marks a descriptor explicitly closed by "N>&-"; it is never
// dereferenced.
var closedFD = &os.File{}

// openRedirections resolves every RedirectionOp in ops against base,
// returning the resulting table and a cleanup func that closes every
// file this call opened. Dup'd descriptors alias an existing entry and
// are not separately closed. Errors leave base's caller-visible state
// untouched.
func openRedirections(ops []RedirectionOp, base FDTable, opts Options, argv0 string) (FDTable, func(), error) {
	table := make(FDTable, len(base)+len(ops))
	for fd, f := range base {
		table[fd] = f
	}

	var opened []*os.File
	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, op := range ops {
		if op.Close {
			table[op.TargetFD] = closedFD
			continue
		}
		if op.DupFD != -1 {
			src, ok := table[op.DupFD]
			if !ok || src == closedFD {
				cleanup()
				return nil, nil, fmt.Errorf("%s: %d: bad file descriptor", argv0, op.DupFD)
			}
			table[op.TargetFD] = src
			continue
		}

		path := op.Path
		if op.CanExpandPath {
			if expanded, ok := expandTilde(path); ok {
				path = expanded
			}
			if opts.Glob() {
				// A target that glob-expands to more than one match
				// silently uses the lexicographically first, the same
				// way original_source's expand_path runs before
				// parseredir ever truncates the extra matches away.
				if matches, err := filepath.Glob(path); err == nil && len(matches) > 0 {
					path = matches[0]
				}
			}
		}

		var f *os.File
		var err error
		switch {
		case op.Read:
			f, err = os.Open(path)
		case op.Append:
			f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		case op.Clobber || opts.Clobber():
			f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		default:
			f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
		}
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("%s: %s: %w", argv0, path, err)
		}
		opened = append(opened, f)
		table[op.TargetFD] = f
	}

	return table, cleanup, nil
}
