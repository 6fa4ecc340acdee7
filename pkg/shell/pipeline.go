package shell

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/iusevoidbtw/sushi-go/internal/jobcontrol"
	"github.com/iusevoidbtw/sushi-go/internal/reexec"
)

// runPipeline executes one or more pipeline stages connected by
// anonymous pipes, per spec §4.7. A single-stage pipeline that names a
// builtin runs it directly in the shell's own process, since that's the
// entire point of a builtin (cd, exit, set must mutate the shell, not a
// child of it).
func (sh *Shell) runPipeline(stages []Command) int {
	if len(stages) == 1 {
		if name := stages[0].Name(); name != "" {
			if _, ok := sh.builtins[name]; ok {
				return sh.runBuiltinForeground(stages[0])
			}
		}
	}
	return sh.runExternalPipeline(stages)
}

// runBuiltinForeground runs a lone builtin in-process, honoring its
// redirections on fd 0/1/2 only (builtins never see descriptors beyond
// standard streams).
func (sh *Shell) runBuiltinForeground(c Command) int {
	base := FDTable{0: sh.Stdin, 1: sh.Stdout, 2: sh.Stderr}
	fds, cleanup, err := openRedirections(c.Redirections, base, sh.opts, sh.Argv0)
	if err != nil {
		fmt.Fprintf(sh.Stderr, "%v\n", err)
		return miscFailureStatus
	}
	defer cleanup()

	argv := c.Argv()
	fn := sh.builtins[argv[0]]
	return fn(sh, argv, fdFileOrDiscard(fds, 1, sh.Stdout), fdFileOrDiscard(fds, 2, sh.Stderr))
}

func fdFileOrDiscard(fds FDTable, fd int, def *os.File) *os.File {
	f := fdFileOrDefault(fds, fd, def)
	if f == nil {
		devnull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err == nil {
			return devnull
		}
	}
	return f
}

// runExternalPipeline wires stages together with os.Pipe, starts every
// stage as its own OS process (builtins go through internal/reexec,
// since a builtin inside a multi-stage pipeline must run concurrently
// with its neighbors and Go cannot safely fork the live runtime), places
// them all in one process group, and waits for the whole group.
func (sh *Shell) runExternalPipeline(stages []Command) int {
	n := len(stages)
	cmds := make([]*exec.Cmd, n)
	fdTables := make([]FDTable, n)
	cleanups := make([]func(), n)

	var readEnd *os.File
	pipes := make([][2]*os.File, 0, n-1)

	defer func() {
		for _, c := range cleanups {
			if c != nil {
				c()
			}
		}
	}()

	for i, stage := range stages {
		base := FDTable{0: sh.Stdin, 1: sh.Stdout, 2: sh.Stderr}
		if readEnd != nil {
			base[0] = readEnd
		}
		if i < n-1 {
			r, w, err := os.Pipe()
			if err != nil {
				fmt.Fprintf(sh.Stderr, "%s: pipe: %v\n", sh.Argv0, err)
				return miscFailureStatus
			}
			pipes = append(pipes, [2]*os.File{r, w})
			base[1] = w
			readEnd = r
		}

		fds, cleanup, err := openRedirections(stage.Redirections, base, sh.opts, sh.Argv0)
		cleanups[i] = cleanup
		if err != nil {
			fmt.Fprintf(sh.Stderr, "%v\n", err)
			return miscFailureStatus
		}
		fdTables[i] = fds
	}

	pgid := 0
	for i, stage := range stages {
		argv := stage.Argv()
		if len(argv) == 0 {
			diag(sh.Stderr, sh.Argv0, "empty command in pipeline")
			return notFoundStatus
		}

		var cmd *exec.Cmd
		var err error
		if _, isBuiltin := sh.builtins[argv[0]]; isBuiltin {
			req := reexec.Request{Name: argv[0], Args: argv[1:]}
			cmd, err = reexec.Command(req, fdTableFile(fdTables[i], 0, sh.Stdin), fdTableFile(fdTables[i], 1, sh.Stdout), fdTableFile(fdTables[i], 2, sh.Stderr))
		} else {
			path, ok := sh.lookup(argv[0])
			if !ok {
				diag(sh.Stderr, argv[0], "command not found")
				return notFoundStatus
			}
			cmd, err = buildExternalCmd(path, argv, fdTables[i])
		}
		if err != nil {
			fmt.Fprintf(sh.Stderr, "%v\n", err)
			return miscFailureStatus
		}
		if sh.jobControlActive() {
			setProcessGroup(cmd, pgid)
		}

		if err := cmd.Start(); err != nil {
			fmt.Fprintf(sh.Stderr, "%s: %v\n", argv[0], err)
			return notExecutableStatus
		}
		if sh.jobControlActive() {
			if pgid == 0 {
				pgid = cmd.Process.Pid
			}
			jobcontrol.Setpgid(cmd.Process.Pid, pgid)
		}
		cmds[i] = cmd
	}

	for _, p := range pipes {
		p[0].Close()
		p[1].Close()
	}

	if sh.jobControlActive() && pgid != 0 {
		jobcontrol.Tcsetpgrp(sh.termFD, pgid)
	}

	statuses := make([]int, n)
	for i, cmd := range cmds {
		err := cmd.Wait()
		statuses[i] = waitStatus(cmd, err)
	}

	if sh.jobControlActive() {
		jobcontrol.Tcsetpgrp(sh.termFD, sh.shellPGID)
	}

	return combineStatus(statuses, sh.opts.Pipefail())
}

// fdTableFile returns the *os.File bound to fd, or def.
func fdTableFile(fds FDTable, fd int, def *os.File) *os.File {
	return fdFileOrDefault(fds, fd, def)
}

// combineStatus implements spec §4.7's status rule: the last stage's
// status normally, or the largest nonzero status across all stages when
// pipefail is enabled.
func combineStatus(statuses []int, pipefail bool) int {
	if !pipefail {
		return statuses[len(statuses)-1]
	}
	max := 0
	for _, s := range statuses {
		if s > max {
			max = s
		}
	}
	return max
}
