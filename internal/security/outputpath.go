// Package security checks paths the CLI is about to write to.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideAllowedDirs is returned when an output path resolves outside
// every allowed directory.
var ErrOutsideAllowedDirs = errors.New("output path outside allowed directories")

// canonical resolves path to an absolute path with symlinks evaluated. For a
// path that does not exist yet, the deepest existing ancestor is resolved and
// the remaining components are appended.
func canonical(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	for dir := filepath.Dir(abs); ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			rel, _ := filepath.Rel(dir, abs)
			return filepath.Join(resolved, rel), nil
		}
		if dir == filepath.Dir(dir) {
			return abs, nil
		}
	}
}

// WithinDirectory reports an error unless filePath, after resolving . and ..
// components and symlinks, lies inside dir.
func WithinDirectory(filePath, dir string) error {
	path, err := canonical(filePath)
	if err != nil {
		return err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}
	root, err := filepath.EvalSymlinks(absDir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%w: %s escapes %s", ErrOutsideAllowedDirs, filePath, dir)
	}
	return nil
}

// ValidateOutputPath checks that filePath has extension ext (compared
// case-insensitively) and lies within one of allowedDirs.
func ValidateOutputPath(filePath, ext string, allowedDirs []string) error {
	if got := filepath.Ext(filePath); !strings.EqualFold(got, ext) {
		return fmt.Errorf("output %s must have %s extension", filePath, ext)
	}
	if len(allowedDirs) == 0 {
		return fmt.Errorf("no allowed directories for %s", filePath)
	}
	for _, dir := range allowedDirs {
		if WithinDirectory(filePath, dir) == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %s not within %v", ErrOutsideAllowedDirs, filePath, allowedDirs)
}

// DefaultOutputDirs returns the directories reports may be written to: the
// working directory, the system temp directory and any extra directories
// given, typically the dataset directory.
func DefaultOutputDirs(extra ...string) ([]string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return append([]string{cwd, os.TempDir()}, extra...), nil
}
