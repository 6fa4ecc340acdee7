package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errw bytes.Buffer
	sh := &Shell{
		Argv0:  "sushi",
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		opts:   DefaultOptions(),
	}
	sh.registerBuiltins()
	return sh, &out, &errw
}

func TestBuiltinCdChangesDirectory(t *testing.T) {
	sh, out, errw := newTestShell(t)
	dir := t.TempDir()

	status := builtinCd(sh, []string{"cd", dir}, out, errw)
	require.Equal(t, 0, status)

	wd, err := os.Getwd()
	require.NoError(t, err)
	resolvedDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	resolvedWd, err := filepath.EvalSymlinks(wd)
	require.NoError(t, err)
	require.Equal(t, resolvedDir, resolvedWd)
}

func TestBuiltinCdNoSuchDirectory(t *testing.T) {
	sh, out, errw := newTestShell(t)
	status := builtinCd(sh, []string{"cd", "/no/such/dir/at/all"}, out, errw)
	require.Equal(t, 1, status)
	require.Contains(t, errw.String(), "cd:")
}

func TestBuiltinCdTooManyArguments(t *testing.T) {
	sh, out, errw := newTestShell(t)
	status := builtinCd(sh, []string{"cd", "a", "b"}, out, errw)
	require.Equal(t, 1, status)
	require.Contains(t, errw.String(), "too many arguments")
}

func TestBuiltinExitParsesStatus(t *testing.T) {
	sh, out, errw := newTestShell(t)
	status := builtinExit(sh, []string{"exit", "7"}, out, errw)
	require.Equal(t, 7, status)
	require.True(t, sh.exitRequested)
	require.Equal(t, 7, sh.exitStatus)
}

func TestBuiltinExitDefaultsToLastStatus(t *testing.T) {
	sh, out, errw := newTestShell(t)
	sh.lastStatus = 3
	status := builtinExit(sh, []string{"exit"}, out, errw)
	require.Equal(t, 3, status)
}

func TestBuiltinExitMasksToByte(t *testing.T) {
	sh, out, errw := newTestShell(t)
	status := builtinExit(sh, []string{"exit", "257"}, out, errw)
	require.Equal(t, 1, status)
}

func TestBuiltinExitNonNumeric(t *testing.T) {
	sh, out, errw := newTestShell(t)
	status := builtinExit(sh, []string{"exit", "nope"}, out, errw)
	require.Equal(t, miscFailureStatus, status)
}

func TestBuiltinTypeReportsBuiltinAndNotFound(t *testing.T) {
	sh, out, errw := newTestShell(t)
	status := builtinType(sh, []string{"type", "cd", "definitely-not-a-real-command"}, out, errw)
	require.Equal(t, 1, status)
	require.Contains(t, out.String(), "cd is a shell builtin")
	require.Contains(t, out.String(), "not found")
}

func TestBuiltinSetTogglesOption(t *testing.T) {
	sh, out, errw := newTestShell(t)
	status := builtinSet(sh, []string{"set", "-v"}, out, errw)
	require.Equal(t, 0, status)
	require.True(t, sh.opts.Verbose())
}

func TestRunBuiltinUnknownName(t *testing.T) {
	sh, _, _ := newTestShell(t)
	status := sh.RunBuiltin([]string{"nope"})
	require.Equal(t, notFoundStatus, status)
}
