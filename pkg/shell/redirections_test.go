package shell

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRedirectionsBasicOutput(t *testing.T) {
	cmd, err := tokenize("echo hi > out.txt")
	require.NoError(t, err)
	cmd, err = parseRedirections(cmd)
	require.NoError(t, err)
	require.Equal(t, []string{"echo", "hi"}, argv(cmd))
	require.Len(t, cmd.Redirections, 1)

	op := cmd.Redirections[0]
	require.Equal(t, 1, op.TargetFD)
	require.Equal(t, "out.txt", op.Path)
	require.False(t, op.Append)
	require.False(t, op.Read)
}

func TestParseRedirectionsAppendAndClobber(t *testing.T) {
	cmd, err := tokenize("echo hi >> out.txt")
	require.NoError(t, err)
	cmd, err = parseRedirections(cmd)
	require.NoError(t, err)
	require.True(t, cmd.Redirections[0].Append)

	cmd, err = tokenize("echo hi >| out.txt")
	require.NoError(t, err)
	cmd, err = parseRedirections(cmd)
	require.NoError(t, err)
	require.True(t, cmd.Redirections[0].Clobber)
}

func TestParseRedirectionsExplicitDescriptor(t *testing.T) {
	cmd, err := tokenize("prog 2> err.txt")
	require.NoError(t, err)
	cmd, err = parseRedirections(cmd)
	require.NoError(t, err)
	require.Equal(t, 2, cmd.Redirections[0].TargetFD)
	require.Equal(t, "err.txt", cmd.Redirections[0].Path)
}

func TestParseRedirectionsDupAndClose(t *testing.T) {
	cmd, err := tokenize("prog 2>&1")
	require.NoError(t, err)
	cmd, err = parseRedirections(cmd)
	require.NoError(t, err)
	require.Equal(t, 2, cmd.Redirections[0].TargetFD)
	require.Equal(t, 1, cmd.Redirections[0].DupFD)

	cmd, err = tokenize("prog 3>&-")
	require.NoError(t, err)
	cmd, err = parseRedirections(cmd)
	require.NoError(t, err)
	require.True(t, cmd.Redirections[0].Close)
	require.Equal(t, 3, cmd.Redirections[0].TargetFD)
}

func TestParseRedirectionsMissingDestination(t *testing.T) {
	cmd, err := tokenize("echo hi >")
	require.NoError(t, err)
	_, err = parseRedirections(cmd)
	require.ErrorIs(t, err, ErrMissingRedirectDestination)
}

func TestParseRedirectionsTruncatesArgvAtFirstOperator(t *testing.T) {
	cmd, err := tokenize("echo a > out.txt 2> err.txt")
	require.NoError(t, err)
	cmd, err = parseRedirections(cmd)
	require.NoError(t, err)
	require.Equal(t, []string{"echo", "a"}, argv(cmd))
	require.Len(t, cmd.Redirections, 2)
}

func TestParseRedirectionsDropsGluedNonDigitPrefix(t *testing.T) {
	cmd, err := tokenize("cmd abc>file")
	require.NoError(t, err)
	cmd, err = parseRedirections(cmd)
	require.NoError(t, err)
	require.Equal(t, []string{"cmd"}, argv(cmd))
	require.Len(t, cmd.Redirections, 1)
	require.Equal(t, 1, cmd.Redirections[0].TargetFD)
	require.Equal(t, "file", cmd.Redirections[0].Path)
}

func TestOpenRedirectionsDupAliasesSameFile(t *testing.T) {
	dir := t.TempDir()
	cmd, err := tokenize("prog > " + dir + "/out.txt 2>&1")
	require.NoError(t, err)
	cmd, err = parseRedirections(cmd)
	require.NoError(t, err)

	base := FDTable{0: nil, 1: nil, 2: nil}
	fds, cleanup, err := openRedirections(cmd.Redirections, base, DefaultOptions(), "prog")
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, fds[1])
	require.Same(t, fds[1], fds[2])
}

func TestOpenRedirectionsCloseMarksSentinel(t *testing.T) {
	cmd, err := tokenize("prog 3>&-")
	require.NoError(t, err)
	cmd, err = parseRedirections(cmd)
	require.NoError(t, err)

	fds, cleanup, err := openRedirections(cmd.Redirections, FDTable{}, DefaultOptions(), "prog")
	require.NoError(t, err)
	defer cleanup()
	require.Same(t, closedFD, fds[3])
}

// A redirection target that glob-expands to more than one match is never
// an error: original_source's expand_path runs glob expansion over the
// whole argv before parseredir truncates anything away, so by the time a
// redirection target is opened it has already been reduced to its
// sorted match list and only the first entry is ever used.
func TestOpenRedirectionsMultiMatchGlobUsesFirstSortedMatch(t *testing.T) {
	dir := t.TempDir()
	makeFiles(t, dir, "a.txt", "b.txt")

	cmd, err := tokenize("prog > " + dir + "/*.txt")
	require.NoError(t, err)
	cmd, err = parseRedirections(cmd)
	require.NoError(t, err)

	// a.txt already exists, so clobber must be on for ">" to open it.
	opts := DefaultOptions()
	opts.set(optClobber, true)
	fds, cleanup, err := openRedirections(cmd.Redirections, FDTable{}, opts, "prog")
	require.NoError(t, err)
	defer cleanup()
	require.NotNil(t, fds[1])
	require.Equal(t, filepath.Join(dir, "a.txt"), fds[1].Name())
}
