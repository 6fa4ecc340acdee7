package shell

import "golang.org/x/term"

// isatty reports whether fd refers to a terminal, used to decide
// whether the shell should drive job control and print prompts.
func isatty(fd int) bool {
	return term.IsTerminal(fd)
}
