package buildifier

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBuildFile(t *testing.T) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "BUILD.bazel")
	require.NoError(t, os.WriteFile(filename, []byte("# empty\n"), 0644))
	return filename
}

// stubBuildifier puts a fake buildifier on PATH that prints output and
// exits with the given status.
func stubBuildifier(t *testing.T, output string, status int) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub requires a POSIX shell")
	}
	dir := t.TempDir()
	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s' '%s'\nexit %d\n", output, status)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "buildifier"), []byte(script), 0755))
	t.Setenv("PATH", dir)
}

func TestFormatFileMissing(t *testing.T) {
	err := Format(filepath.Join(t.TempDir(), "BUILD.bazel"))
	var missing *FileMissingError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, missing.Path, "BUILD.bazel")
}

func TestFormatNotFound(t *testing.T) {
	filename := writeBuildFile(t)
	t.Setenv("PATH", t.TempDir())

	err := Format(filename)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFormatSuccess(t *testing.T) {
	filename := writeBuildFile(t)
	stubBuildifier(t, "", 0)

	assert.NoError(t, Format(filename))
}

func TestFormatExecFailure(t *testing.T) {
	filename := writeBuildFile(t)
	stubBuildifier(t, "syntax error near line 3", 1)

	err := Format(filename)
	var execErr *ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, string(execErr.Output), "syntax error")
	assert.Contains(t, err.Error(), "syntax error")
}
