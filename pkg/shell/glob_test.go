package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func makeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0644))
	}
}

func TestExpandGlobsMatchesAndSorts(t *testing.T) {
	dir := t.TempDir()
	makeFiles(t, dir, "b.txt", "a.txt", "c.txt")

	cmd, err := tokenize("cat " + filepath.Join(dir, "*.txt"))
	require.NoError(t, err)

	cmd, err = expandGlobs(cmd, DefaultOptions())
	require.NoError(t, err)
	got := argv(cmd)
	require.Len(t, got, 4)

	require.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "c.txt"),
	}, got[1:])
}

func TestExpandGlobsNoMatchKeepsLiteral(t *testing.T) {
	cmd, err := tokenize("cat /no/such/dir/*.nope")
	require.NoError(t, err)
	cmd, err = expandGlobs(cmd, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"cat", "/no/such/dir/*.nope"}, argv(cmd))
}

func TestExpandGlobsMalformedPatternAborts(t *testing.T) {
	cmd, err := tokenize("cat [")
	require.NoError(t, err)
	_, err = expandGlobs(cmd, DefaultOptions())
	require.Error(t, err)
}

func TestExpandGlobsDisabledByOption(t *testing.T) {
	dir := t.TempDir()
	makeFiles(t, dir, "a.txt")

	cmd, err := tokenize("cat " + filepath.Join(dir, "*.txt"))
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.set(optGlob, false)
	cmd, err = expandGlobs(cmd, opts)
	require.NoError(t, err)
	require.Equal(t, []string{"cat", filepath.Join(dir, "*.txt")}, argv(cmd))
}

func TestExpandGlobsIgnoresNonCandidateTokens(t *testing.T) {
	cmd, err := tokenize("echo literal")
	require.NoError(t, err)
	cmd, err = expandGlobs(cmd, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, []string{"echo", "literal"}, argv(cmd))
}
