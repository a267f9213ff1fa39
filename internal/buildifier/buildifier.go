// Package buildifier invokes the external buildifier binary on a
// generated build file. Its failures are typed so the caller can
// report them as warnings without failing the run: by the time
// buildifier runs, the artifact is already on disk.
package buildifier

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/bazelgem/gembuild/internal/util"
)

// ErrNotFound means no buildifier binary is on PATH.
var ErrNotFound = errors.New("buildifier not found on PATH")

// FileMissingError means the file to format does not exist.
type FileMissingError struct {
	Path string
}

func (e *FileMissingError) Error() string {
	return fmt.Sprintf("no such file to format: %s", e.Path)
}

// ExecError means buildifier ran and failed; Output holds its
// combined stdout and stderr.
type ExecError struct {
	Output []byte
	Err    error
}

func (e *ExecError) Error() string {
	out := strings.TrimSpace(string(e.Output))
	if out == "" {
		return fmt.Sprintf("buildifier: %s", e.Err)
	}
	return fmt.Sprintf("buildifier: %s: %s", e.Err, out)
}

// Format runs buildifier in fix mode on filename, rewriting it in
// place. Exactly one attempt is made.
func Format(filename string) error {
	if _, err := os.Stat(filename); err != nil {
		return &FileMissingError{Path: filename}
	}

	bin, err := exec.LookPath("buildifier")
	if err != nil {
		return ErrNotFound
	}

	cmd := []string{bin, "-mode=fix", filename}
	util.ProgressMsg(shellquote.Join(cmd...))

	output, err := exec.Command(cmd[0], cmd[1:]...).CombinedOutput()
	if err != nil {
		return &ExecError{Output: output, Err: err}
	}
	if out := strings.TrimSpace(string(output)); out != "" {
		util.ProgressMsg(out)
	}
	return nil
}
