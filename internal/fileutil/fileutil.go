// Package fileutil provides small path helpers shared by the batch planner
// and the audio writer.
package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const dirPermissions = 0o750

// EnsureDir creates the directory at path, including parents, if it does not
// already exist.
func EnsureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}

	_, statErr := os.Stat(path)
	if os.IsNotExist(statErr) {
		mkdirErr := os.MkdirAll(path, dirPermissions)
		if mkdirErr != nil {
			return fmt.Errorf("failed to create directory %s: %w", path, mkdirErr)
		}
	}

	return nil
}

// SplitStemSuffix breaks a file path into directory, base name without
// extension, and extension (including the dot). "out/voice.wav" yields
// ("out", "voice", ".wav").
func SplitStemSuffix(path string) (dir, stem, suffix string) {
	dir, file := filepath.Split(path)
	dir = filepath.Clean(dir)

	suffix = filepath.Ext(file)
	stem = strings.TrimSuffix(file, suffix)

	return dir, stem, suffix
}
