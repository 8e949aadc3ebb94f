// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Sentinel errors for file utility operations.
var (
	ErrEmptyPath = errors.New("path cannot be empty")
	ErrIsDir     = errors.New("path is a directory")
)

// Presence is the outcome of looking up an optional file.
type Presence int

const (
	// NotFound means nothing exists at the path.
	NotFound Presence = iota
	// Found means a regular file exists at the path.
	Found
)

func (p Presence) String() string {
	if p == Found {
		return "found"
	}
	return "not found"
}

// Lookup reports whether a regular file exists at path.
// A missing file is NotFound with a nil error. Any other stat failure
// (permission denied, broken parent) is returned so callers can abort.
func Lookup(path string) (Presence, error) {
	if path == "" {
		return NotFound, ErrEmptyPath
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NotFound, nil
		}
		return NotFound, fmt.Errorf("checking %s: %w", path, err)
	}
	if info.IsDir() {
		return NotFound, nil
	}
	return Found, nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	p, err := Lookup(path)
	return err == nil && p == Found
}

// WriteFileAtomic replaces path with data by writing a temporary file in the
// same directory and renaming it over the target. Parent directories are
// created as needed.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if path == "" {
		return ErrEmptyPath
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s", ErrIsDir, path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(data); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	return nil
}

// StripWhitespace removes every whitespace character from s.
//
// Examples:
//   - "Model Types" -> "ModelTypes"
//   - "Deep  Learning\t" -> "DeepLearning"
func StripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "book" -> false (name)
//   - "./book.yaml" -> true (relative path)
//   - "/absolute/book.yaml" -> true (absolute)
//   - "sub/dir" -> true (contains separator)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
