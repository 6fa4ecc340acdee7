package shell

import (
	"os"
	"os/user"
	"strings"
)

// expandTildes runs tilde expansion (spec §4.2) over every token of cmd,
// rewriting cmd.Tokens in place and marking any expanded slots Owned.
func expandTildes(cmd Command) Command {
	for i, t := range cmd.Tokens {
		if expanded, ok := expandTilde(t.Value); ok {
			cmd.Tokens[i].Value = expanded
			cmd.Tokens[i].Owned = true
		}
	}
	return cmd
}

// expandTilde expands a leading ~ or ~user in tok. ok is false when tok
// does not start with ~, or the expansion could not be resolved (HOME
// unset, or no such user) — in both cases tok is left unchanged by the
// caller.
func expandTilde(tok string) (string, bool) {
	if !strings.HasPrefix(tok, "~") {
		return tok, false
	}

	cut := strings.IndexAny(tok, "/ ")
	head, tail := tok, ""
	if cut >= 0 {
		head, tail = tok[:cut], tok[cut:]
	}

	home, ok := resolveHome(head)
	if !ok {
		return tok, false
	}
	return home + tail, true
}

// resolveHome resolves "~" to $HOME, or "~name" to name's home directory
// via os/user.Lookup (spec §3.5).
func resolveHome(head string) (string, bool) {
	if head == "~" {
		home := os.Getenv("HOME")
		if home == "" {
			return "", false
		}
		return home, true
	}
	u, err := user.Lookup(head[1:])
	if err != nil {
		return "", false
	}
	return u.HomeDir, true
}
