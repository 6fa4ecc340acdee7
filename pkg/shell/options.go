package shell

import (
	"fmt"
	"io"
	"strings"
)

// optFlag is the shell's process-wide option bitset, grounded on
// original_source/sushi.c's `enum opt`.
type optFlag uint8

const (
	optClobber optFlag = 1 << iota
	optCmdline
	optGlob
	optIgnoreEOF
	optPipefail
	optStdin
	optVerbose
)

// optionNames lists options in the fixed order `set -o`/`set +o` prints
// them, matching original_source's optlist.
var optionNames = []struct {
	name string
	flag optFlag
}{
	{"clobber", optClobber},
	{"cmdline", optCmdline},
	{"glob", optGlob},
	{"ignoreeof", optIgnoreEOF},
	{"pipefail", optPipefail},
	{"stdin", optStdin},
	{"verbose", optVerbose},
}

// Options is the shell's process-wide toggle state (spec §3, §6).
//
// The default state is {glob, stdin}.
type Options struct {
	bits optFlag
}

// DefaultOptions returns the shell's startup default option set.
func DefaultOptions() Options {
	return Options{bits: optGlob | optStdin}
}

func (o Options) has(f optFlag) bool { return o.bits&f != 0 }

func (o *Options) set(f optFlag, enable bool) {
	if enable {
		o.bits |= f
	} else {
		o.bits &^= f
	}
}

// Clobber reports whether `>` truncates existing files instead of
// requiring O_EXCL.
func (o Options) Clobber() bool { return o.has(optClobber) }

// Glob reports whether filename pattern expansion is enabled.
func (o Options) Glob() bool { return o.has(optGlob) }

// IgnoreEOF reports whether Ctrl-D at the prompt should be ignored.
func (o Options) IgnoreEOF() bool { return o.has(optIgnoreEOF) }

// Pipefail reports whether a pipeline's status is the largest nonzero
// stage status rather than the last stage's status.
func (o Options) Pipefail() bool { return o.has(optPipefail) }

// Verbose reports whether each line is echoed to stderr before execution.
func (o Options) Verbose() bool { return o.has(optVerbose) }

// Cmdline reports whether the shell was started with -c.
func (o Options) Cmdline() bool { return o.has(optCmdline) }

// Stdin reports whether the shell reads its script from standard input.
func (o Options) Stdin() bool { return o.has(optStdin) }

// startupOnly are the options that parseOptions refuses to change once the
// shell is already initialized (spec §4.5's `set` contract).
var startupOnly = map[string]optFlag{
	"stdin":   optStdin,
	"cmdline": optCmdline,
}

// ParseStartupOptions parses the shell's own command-line arguments
// (before any command has run), filling in opts and reporting a -c
// command line if one was given.
func ParseStartupOptions(argv0 string, args []string, out, errw io.Writer, opts *Options) (cmdline string, hasCmdline bool, err error) {
	return parseOptions(false, argv0, args, out, errw, opts)
}

// parseOptions implements both the startup argv parser and the `set`
// builtin's option parser, following original_source's optparse. When
// initialized is true, changes to startup-only options are rejected.
func parseOptions(initialized bool, argv0 string, args []string, out, errw io.Writer, opts *Options) (cmdline string, hasCmdline bool, err error) {
	i := 0
	for i < len(args) {
		arg := args[i]
		if len(arg) == 0 {
			i++
			continue
		}
		var plus bool
		switch arg[0] {
		case '-':
			plus = false
		case '+':
			plus = true
		default:
			fmt.Fprintf(errw, "%s: unrecognized option '%s'\n", argv0, arg)
			i++
			continue
		}

		for _, c := range arg[1:] {
			switch c {
			case 'o':
				if i+1 >= len(args) {
					if initialized {
						listOptions(out, plus, *opts)
					} else {
						fmt.Fprintf(errw, "%s: missing argument for -o option\n", argv0)
						return "", false, fmt.Errorf("missing argument for -o")
					}
					continue
				}
				i++
				opt := args[i]
				enable := !plus
				if strings.HasPrefix(opt, "no") {
					enable = !enable
					opt = opt[2:]
				}
				if opt == "cmdline" {
					if !enable {
						fmt.Fprintf(errw, "%s: unrecognized option 'no cmdline'\n", argv0)
						continue
					}
					if initialized {
						fmt.Fprintf(errw, "%s: the cmdline option cannot be changed after the shell has been initialized\n", argv0)
						return "", false, fmt.Errorf("cmdline not settable at runtime")
					}
					if i+1 >= len(args) {
						fmt.Fprintf(errw, "%s: the cmdline option was specified but no command was given\n", argv0)
						return "", false, fmt.Errorf("missing cmdline argument")
					}
					i++
					opts.set(optStdin, false)
					opts.set(optCmdline, true)
					cmdline = args[i]
					hasCmdline = true
					continue
				}
				if flag, ok := lookupOptionFlag(opt); ok {
					if f, startup := startupOnly[opt]; startup && initialized && f == flag {
						fmt.Fprintf(errw, "%s: the %s option cannot be changed after the shell has been initialized\n", argv0, opt)
						return "", false, fmt.Errorf("%s not settable at runtime", opt)
					}
					opts.set(flag, enable)
				} else {
					fmt.Fprintf(errw, "%s: unrecognized option '%s'\n", argv0, opt)
				}
			case 'c':
				if plus {
					continue
				}
				if initialized {
					fmt.Fprintf(errw, "%s: the cmdline option cannot be changed after the shell has been initialized\n", argv0)
					return "", false, fmt.Errorf("cmdline not settable at runtime")
				}
				if i+1 >= len(args) {
					fmt.Fprintf(errw, "%s: the cmdline option was specified but no command was given\n", argv0)
					return "", false, fmt.Errorf("missing cmdline argument")
				}
				i++
				opts.set(optStdin, false)
				opts.set(optCmdline, true)
				cmdline = args[i]
				hasCmdline = true
			case 'C':
				opts.set(optClobber, !plus)
			case 'f':
				opts.set(optGlob, plus)
			case 's':
				if initialized {
					fmt.Fprintf(errw, "%s: the stdin option cannot be changed after the shell has been initialized\n", argv0)
					return "", false, fmt.Errorf("stdin not settable at runtime")
				}
				if !plus && opts.has(optCmdline) {
					fmt.Fprintf(errw, "%s: the stdin option cannot be used with the cmdline option\n", argv0)
					return "", false, fmt.Errorf("stdin conflicts with cmdline")
				}
				opts.set(optStdin, !plus)
			case 'v':
				opts.set(optVerbose, !plus)
			default:
				fmt.Fprintf(errw, "usage: %s [+-Cfsv] [+-c cmdline] [+-o option]\n", argv0)
				return "", false, fmt.Errorf("unknown flag %q", string(c))
			}
		}
		i++
	}
	return cmdline, hasCmdline, nil
}

func lookupOptionFlag(name string) (optFlag, bool) {
	for _, o := range optionNames {
		if o.name == name {
			return o.flag, true
		}
	}
	return 0, false
}

// listOptions prints the current option state in the `-o` (on/off table)
// or `+o` (re-settable `set +o name` form) layout, per original_source's
// optlist.
func listOptions(out io.Writer, plus bool, opts Options) {
	for _, o := range optionNames {
		if plus {
			sign := "+"
			if opts.has(o.flag) {
				sign = "-"
			}
			fmt.Fprintf(out, "set %so %s\n", sign, o.name)
		} else {
			state := "off"
			if opts.has(o.flag) {
				state = "on"
			}
			fmt.Fprintf(out, "%-10s %s\n", o.name, state)
		}
	}
}
