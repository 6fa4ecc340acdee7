package shell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Builtin runs a built-in command against the given argv (argv[0] is
// the command name) and stdio, returning its exit status. Builtins
// never run external processes; only type consults PATH.
type Builtin func(sh *Shell, argv []string, out, errw io.Writer) int

func (sh *Shell) registerBuiltins() {
	sh.builtins = map[string]Builtin{
		"cd":   builtinCd,
		"exit": builtinExit,
		"set":  builtinSet,
		"type": builtinType,
	}
}

// builtinCd implements cd [--] [dir], per spec §4.5 and
// original_source's builtin_cd.
func builtinCd(sh *Shell, argv []string, out, errw io.Writer) int {
	args := argv[1:]
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}

	var target string
	switch len(args) {
	case 0:
		target = os.Getenv("HOME")
		if target == "" {
			diag(errw, "cd", "HOME not set")
			return 1
		}
	case 1:
		target = args[0]
	default:
		diag(errw, "cd", "too many arguments")
		return 1
	}

	if expanded, ok := expandTilde(target); ok {
		target = expanded
	}

	if err := os.Chdir(target); err != nil {
		diagf(errw, "cd", "%s:", err, target)
		return 1
	}
	return 0
}

// builtinExit implements exit [--] [status].
func builtinExit(sh *Shell, argv []string, out, errw io.Writer) int {
	args := argv[1:]
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}

	status := sh.lastStatus
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			diagf(errw, "exit", "%s: numeric argument required:", err, args[0])
			status = miscFailureStatus
		} else {
			status = n & 0xff
		}
	}
	sh.exitRequested = true
	sh.exitStatus = status
	return status
}

// builtinSet implements set [+-Cfsv] [+-c cmdline] [+-o [option]].
func builtinSet(sh *Shell, argv []string, out, errw io.Writer) int {
	if _, _, err := parseOptions(true, "set", argv[1:], out, errw, &sh.opts); err != nil {
		return miscFailureStatus
	}
	return 0
}

// builtinType implements type [--] name..., per spec §4.5 and
// original_source's builtin_type.
func builtinType(sh *Shell, argv []string, out, errw io.Writer) int {
	args := argv[1:]
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	if len(args) == 0 {
		diag(errw, "type", "usage: type name ...")
		return miscFailureStatus
	}

	status := 0
	for _, name := range args {
		if _, ok := sh.builtins[name]; ok {
			fmt.Fprintf(out, "%s is a shell builtin\n", name)
			continue
		}
		if path, ok := sh.lookup(name); ok {
			fmt.Fprintf(out, "%s is %s\n", name, path)
			continue
		}
		fmt.Fprintf(out, "%s: not found\n", name)
		status = 1
	}
	return status
}

// RunBuiltin runs a builtin named by argv[0] directly against the
// shell's own stdio, with no redirection handling of its own. It is
// used by the reexec entry point, where fd-level redirection has
// already been applied by the parent before the process was started.
func (sh *Shell) RunBuiltin(argv []string) int {
	fn, ok := sh.builtins[argv[0]]
	if !ok {
		diag(sh.Stderr, argv[0], "not a builtin")
		return notFoundStatus
	}
	return fn(sh, argv, sh.Stdout, sh.Stderr)
}

// lookup searches the shell's captured PATH directories for an
// executable named name, matching original_source's which()/executable().
func (sh *Shell) lookup(name string) (string, bool) {
	if filepath.IsAbs(name) || filepath.Base(name) != name {
		if info, err := os.Stat(name); err == nil && info.Mode().IsRegular() && info.Mode()&0111 != 0 {
			return name, true
		}
		return "", false
	}
	for _, dir := range sh.pathDirs {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() && info.Mode()&0111 != 0 {
			return candidate, true
		}
	}
	return "", false
}
