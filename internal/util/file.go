package util

import (
	"bytes"
	"os"

	"github.com/natefinch/atomic"
)

// TryWriteAtomic tries to write contents to filename atomically,
// falling back to a non-atomic write if that fails. Any existing file
// is replaced.
func TryWriteAtomic(filename string, contents []byte) {
	if err1 := atomic.WriteFile(filename, bytes.NewReader(contents)); err1 != nil {
		if err2 := os.WriteFile(filename, contents, 0666); err2 != nil {
			Die("%s: %s; on non-atomic retry: %s", filename, err1, err2)
		}
	}
}

// Exists returns true if the given file exists.
func Exists(filename string) bool {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return false
	} else if err != nil {
		Die("%s: %s", filename, err)
		return false
	} else {
		return true
	}
}
