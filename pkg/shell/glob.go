package shell

import (
	"fmt"
	"path/filepath"
	"sort"
)

// expandGlobs runs filename pattern expansion over cmd (spec §4.3).
//
// A token only participates if the line it came from contained a glob
// metacharacter (canExpand) and the glob option is enabled. A pattern
// that matches nothing is left in the argument list unchanged —
// original_source's expand_path falls back to the literal pattern in
// that case. Any other matching error (a malformed pattern) aborts the
// whole command with a diagnostic, per spec §4.3.
func expandGlobs(cmd Command, opts Options) (Command, error) {
	if !opts.Glob() {
		return cmd, nil
	}

	var out []Token
	for _, t := range cmd.Tokens {
		if !t.canExpand {
			out = append(out, t)
			continue
		}
		matches, err := filepath.Glob(t.Value)
		if err != nil {
			return cmd, fmt.Errorf("%s: %w", t.Value, err)
		}
		if len(matches) == 0 {
			out = append(out, t)
			continue
		}
		sort.Strings(matches)
		for _, m := range matches {
			out = append(out, Token{Value: m, Owned: true})
		}
	}
	cmd.Tokens = out
	return cmd, nil
}
