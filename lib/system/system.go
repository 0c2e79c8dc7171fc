package system

import (
	"errors"
	"os"
	"path/filepath"
)

// Returned by FindFileUpwards when no directory up to the filesystem root holds the file.
var ErrNotFound = errors.New("not found")

// Searches for the specified file within `dir` and every directory above it.
// Returns the absolute path to the file if found, otherwise ErrNotFound.
func FindFileUpwards(dir string, filename string) (string, error) {
	// Get absolute start directory as initial search path
	searchPath, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		// Check if file exists
		candidate := filepath.Join(searchPath, filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		// Not found yet, move up one directory
		parent := filepath.Dir(searchPath)
		if parent == searchPath {
			return "", ErrNotFound
		}
		searchPath = parent
	}
}
