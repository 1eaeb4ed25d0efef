// Package security confines document paths to the configured directory.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator resolves caller-supplied paths against a root directory and
// rejects anything that escapes it, including through symlinks.
type PathValidator struct {
	root string
}

func NewPathValidator(root string) (*PathValidator, error) {
	if root == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configured directory: %w", err)
	}
	return &PathValidator{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute configured directory.
func (v *PathValidator) Root() string { return v.root }

// Resolve returns the absolute form of path. Relative paths are taken from
// the root. The result, and its symlink target when it exists, must lie
// within the root.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.root, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	abs = filepath.Clean(abs)

	roots := []string{v.root}
	if real, err := filepath.EvalSymlinks(v.root); err == nil && real != v.root {
		roots = append(roots, real)
	}
	if !within(abs, roots) {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil && !within(real, roots) {
		return "", fmt.Errorf("path resolves outside configured directory: %s", path)
	}
	return abs, nil
}

// Contains reports whether path resolves inside the root.
func (v *PathValidator) Contains(path string) bool {
	_, err := v.Resolve(path)
	return err == nil
}

func within(path string, roots []string) bool {
	for _, root := range roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// EnsureRoot creates the root directory when it does not exist yet.
func (v *PathValidator) EnsureRoot() error {
	info, err := os.Stat(v.root)
	if os.IsNotExist(err) {
		return os.MkdirAll(v.root, 0o755)
	}
	if err != nil {
		return fmt.Errorf("cannot access configured directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("configured path is not a directory: %s", v.root)
	}
	return nil
}
