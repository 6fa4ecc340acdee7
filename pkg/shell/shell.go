// Package shell implements an interactive POSIX-flavored command
// shell: tokenizing and quoting, tilde and filename expansion, I/O
// redirection, a small set of builtins, and pipeline execution with
// process-group based job control.
package shell

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/iusevoidbtw/sushi-go/internal/jobcontrol"
)

// Shell holds everything one interactive (or -c, or script) invocation
// needs: option state, the builtin table, the captured PATH, and the
// terminal/process-group bookkeeping job control depends on.
//
// A Shell is not safe for concurrent use.
type Shell struct {
	Argv0 string

	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	opts     Options
	pathDirs []string
	builtins map[string]Builtin

	lastStatus int

	exitRequested bool
	exitStatus    int

	interactive bool
	termFD      int
	shellPGID   int

	in *bufio.Reader
}

// New creates a Shell wired to the given standard streams. The shell is
// interactive when stdout and stderr are both terminals: it then drives
// TIOCSPGRP/TIOCGPGRP against stderr's descriptor, records its own
// process group and ignores SIGTTOU. Otherwise termFD is -1 and job
// control is off.
func New(argv0 string, stdin, stdout, stderr *os.File, opts Options) *Shell {
	path := os.Getenv("PATH")
	var dirs []string
	if path != "" {
		dirs = strings.Split(path, string(os.PathListSeparator))
	}

	sh := &Shell{
		Argv0:    argv0,
		Stdin:    stdin,
		Stdout:   stdout,
		Stderr:   stderr,
		opts:     opts,
		pathDirs: dirs,
		in:       bufio.NewReader(stdin),
	}
	sh.registerBuiltins()

	sh.termFD = -1
	if fd := int(stderr.Fd()); isatty(int(stdout.Fd())) && isatty(fd) {
		sh.termFD = fd
		sh.interactive = true
		sh.shellPGID = jobcontrol.Getpgrp()
		jobcontrol.IgnoreTTOU()
	}

	return sh
}

// RunInteractive drives the prompt/read/eval loop until exit or EOF,
// per spec §4.8. It returns the status the process should exit with.
func (sh *Shell) RunInteractive() int {
	for !sh.exitRequested {
		if sh.interactive {
			fmt.Fprint(sh.Stdout, sh.prompt())
		}

		line, err := sh.in.ReadString('\n')
		if err != nil {
			if line == "" {
				if sh.opts.IgnoreEOF() && sh.interactive {
					fmt.Fprintln(sh.Stdout)
					continue
				}
				break
			}
		}

		line = strings.TrimRight(line, "\n")
		sh.evalLine(line)
	}
	if sh.exitRequested {
		return sh.exitStatus
	}
	return sh.lastStatus
}

// RunCommandLine evaluates a single -c argument and returns its status.
func (sh *Shell) RunCommandLine(cmdline string) int {
	sh.evalLine(cmdline)
	if sh.exitRequested {
		return sh.exitStatus
	}
	return sh.lastStatus
}

// prompt returns "$ " ("# " for root), prefixed with the last status
// when that status is nonzero (e.g. "1 $ "). It is computed afresh
// before each line is read; there is no user customization.
func (sh *Shell) prompt() string {
	base := "$ "
	if os.Geteuid() == 0 {
		base = "# "
	}
	if sh.lastStatus > 0 {
		return fmt.Sprintf("%d %s", sh.lastStatus, base)
	}
	return base
}

// evalLine splits line on ';' into a sequence of independent pipelines
// and runs each in turn, per spec §4.8.
func (sh *Shell) evalLine(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if sh.opts.Verbose() {
		fmt.Fprintln(sh.Stderr, line)
	}

	for _, segment := range splitSequence(line) {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		sh.lastStatus = sh.evalPipeline(segment)
		if sh.exitRequested {
			return
		}
	}
}

// splitSequence splits a line on top-level ';' separators, respecting
// quoting so that a ';' inside a quoted string is not a separator.
func splitSequence(line string) []string {
	var segments []string
	var cur strings.Builder
	inSingle, inDouble, escaped := false, false, false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case escaped:
			cur.WriteByte(ch)
			escaped = false
		case ch == '\\' && !inSingle:
			cur.WriteByte(ch)
			escaped = true
		case ch == '\'' && !inDouble:
			inSingle = !inSingle
			cur.WriteByte(ch)
		case ch == '"' && !inSingle:
			inDouble = !inDouble
			cur.WriteByte(ch)
		case ch == ';' && !inSingle && !inDouble:
			segments = append(segments, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	segments = append(segments, cur.String())
	return segments
}

// evalPipeline parses one "cmd | cmd | ..." segment and executes it.
func (sh *Shell) evalPipeline(segment string) int {
	stageTexts := splitPipeline(segment)
	stages := make([]Command, 0, len(stageTexts))

	for _, text := range stageTexts {
		cmd, err := tokenize(text)
		if err != nil {
			fmt.Fprintf(sh.Stderr, "%s: %v\n", sh.Argv0, err)
			return miscFailureStatus
		}
		cmd, err = parseRedirections(cmd)
		if err != nil {
			fmt.Fprintf(sh.Stderr, "%s: %v\n", sh.Argv0, err)
			return miscFailureStatus
		}
		cmd, err = expandGlobs(cmd, sh.opts)
		if err != nil {
			fmt.Fprintf(sh.Stderr, "%s: %v\n", sh.Argv0, err)
			return miscFailureStatus
		}
		stages = append(stages, cmd)
	}

	return sh.runPipeline(stages)
}

// splitPipeline splits a segment on top-level '|', respecting quoting.
//
// A '|' immediately preceded by '>' is part of the ">|" force-clobber
// redirection operator, not a pipeline separator — matching
// original_source's exec(), which only treats a line as a pipeline when
// its first unquoted '|' is not preceded by '>'.
func splitPipeline(segment string) []string {
	var parts []string
	var cur strings.Builder
	inSingle, inDouble, escaped := false, false, false

	for i := 0; i < len(segment); i++ {
		ch := segment[i]
		switch {
		case escaped:
			cur.WriteByte(ch)
			escaped = false
		case ch == '\\' && !inSingle:
			cur.WriteByte(ch)
			escaped = true
		case ch == '\'' && !inDouble:
			inSingle = !inSingle
			cur.WriteByte(ch)
		case ch == '"' && !inSingle:
			inDouble = !inDouble
			cur.WriteByte(ch)
		case ch == '|' && !inSingle && !inDouble && !(i > 0 && segment[i-1] == '>'):
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	parts = append(parts, cur.String())
	return parts
}
