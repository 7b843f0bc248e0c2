// Package fileval provides pre-grade validation checks for source files.
//
// These checks run before sources are read for line counts and snippets,
// to skip files that clearly aren't gradeable Python text: binary blobs
// and oversized files.
package fileval

import (
	"fmt"
	"os"
)

// FileTooLargeError is returned when a file exceeds the configured maximum size.
type FileTooLargeError struct {
	Path    string
	Size    int64
	MaxSize int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf(
		"file too large (%d > %d bytes); increase [discovery] max-file-size in .ruffgrade.toml to override",
		e.Size, e.MaxSize,
	)
}

// NotUTF8Error is returned when a file does not appear to be valid UTF-8 text.
type NotUTF8Error struct {
	Path string
}

func (e *NotUTF8Error) Error() string {
	return "file does not appear to be valid UTF-8 text"
}

// ValidateFile runs pre-grade validation checks on a file:
//  1. Maximum size check (when maxSize > 0)
//  2. UTF-8 smoke check
//
// An empty file is valid: empty __init__.py modules are ordinary Python.
func ValidateFile(path string, maxSize int64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	// 1. Maximum size check.
	if maxSize > 0 && info.Size() > maxSize {
		return &FileTooLargeError{Path: path, Size: info.Size(), MaxSize: maxSize}
	}

	// 2. UTF-8 smoke check.
	// Use maxSize as the read limit when positive; otherwise read up to 1 MB.
	readLimit := maxSize
	if readLimit <= 0 {
		readLimit = 1 << 20 // 1 MB
	}
	ok, err := looksUTF8(f, readLimit)
	if err != nil {
		return err
	}
	if !ok {
		return &NotUTF8Error{Path: path}
	}

	return nil
}
