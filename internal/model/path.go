// Package model defines the value types shared across nfind packages.
package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// String returns the path as a plain string.
func (p Path) String() string {
	return string(p)
}

// Name returns the last element of the path.
func (p Path) Name() string {
	return filepath.Base(string(p))
}

// Parent returns the directory containing the path.
func (p Path) Parent() Path {
	return Path(filepath.Dir(string(p)))
}

// Join appends elements to the path.
func (p Path) Join(elem ...string) Path {
	return Path(filepath.Join(append([]string{string(p)}, elem...)...))
}

// IsAbs reports whether the path is absolute.
func (p Path) IsAbs() bool {
	return filepath.IsAbs(string(p))
}

// Ext returns the full multi-part extension of the file name, so
// "scan.nii.gz" yields ".nii.gz". Leading dots of hidden files are not
// treated as an extension separator.
func (p Path) Ext() string {
	return SplitExt(p.Name())
}

// Stem returns the file name with its full extension stripped.
func (p Path) Stem() string {
	name := p.Name()
	return strings.TrimSuffix(name, SplitExt(name))
}

// Ancestors returns the names of every directory above the path, nearest
// first. Volume roots and "." are not included.
func (p Path) Ancestors() []string {
	var names []string

	dir := filepath.Dir(filepath.Clean(string(p)))
	for {
		name := filepath.Base(dir)
		if name == "." || name == string(filepath.Separator) || name == filepath.VolumeName(dir) || name == "" {
			break
		}

		names = append(names, name)

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}

		dir = parent
	}

	return names
}

// Rel returns the path relative to base. ok is false when the path does not
// live under base.
func (p Path) Rel(base Path) (Path, bool) {
	rel, err := filepath.Rel(string(base), string(p))
	if err != nil {
		return "", false
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	return Path(rel), true
}

// Resolve expands a leading "~" and makes the path absolute and clean.
func (p Path) Resolve() (Path, error) {
	raw := string(p)

	if raw == "~" || strings.HasPrefix(raw, "~"+string(filepath.Separator)) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}

		raw = filepath.Join(home, strings.TrimPrefix(raw, "~"))
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", raw, err)
	}

	return Path(abs), nil
}

// SplitExt returns the extension of a file name, starting at the first dot
// that follows the leading run of dots.
func SplitExt(name string) string {
	trimmed := strings.TrimLeft(name, ".")

	idx := strings.Index(trimmed, ".")
	if idx < 0 {
		return ""
	}

	return trimmed[idx:]
}
