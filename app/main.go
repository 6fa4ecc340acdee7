// Command sushi is an interactive POSIX-flavored shell: tokenizing and
// quoting, tilde and filename expansion, I/O redirection, a handful of
// builtins, and pipeline execution under real process-group job
// control.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iusevoidbtw/sushi-go/internal/reexec"
	"github.com/iusevoidbtw/sushi-go/pkg/shell"
)

func main() {
	if req, ok, err := reexec.Decode(); ok {
		os.Exit(runReexecedBuiltin(req, err))
	}

	argv0 := filepath.Base(os.Args[0])
	opts := shell.DefaultOptions()

	cmdline, hasCmdline, err := shell.ParseStartupOptions(argv0, os.Args[1:], os.Stdout, os.Stderr, &opts)
	if err != nil {
		os.Exit(2)
	}

	sh := shell.New(argv0, os.Stdin, os.Stdout, os.Stderr, opts)

	if hasCmdline {
		os.Exit(sh.RunCommandLine(cmdline))
	}
	os.Exit(sh.RunInteractive())
}

// runReexecedBuiltin runs the single builtin requested by a parent
// shell's internal/reexec payload against inherited stdio, then exits.
// See internal/reexec's package doc for why this replaces a real fork.
func runReexecedBuiltin(req reexec.Request, decodeErr error) int {
	if decodeErr != nil {
		fmt.Fprintln(os.Stderr, decodeErr)
		return 125
	}
	sh := shell.New(req.Name, os.Stdin, os.Stdout, os.Stderr, shell.DefaultOptions())
	return sh.RunBuiltin(append([]string{req.Name}, req.Args...))
}
