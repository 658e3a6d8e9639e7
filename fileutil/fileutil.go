package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileExists returns true if a file or directory with the given path exists.
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// EnsureDir creates a directory with the given path, including any missing
// parents. It is a no-op if the directory already exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// NextAvailablePath returns the given path if nothing exists there.
// Otherwise it appends _1, _2, ... before the extension until it finds a
// path that is not in use.
func NextAvailablePath(path string) string {
	if !FileExists(path) {
		return path
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if !FileExists(candidate) {
			return candidate
		}
	}
}
