// Package adapter contains the filesystem boundary used by nfind's filters
// and explorers.
package adapter

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	m "nfind.dev/pkg/nfind/internal/model"
)

// FSAdapter abstracts the filesystem operations that filters and explorers
// rely on. It hides direct `os` access so the domain logic can be exercised
// against an in-memory tree.
type FSAdapter interface {
	// FileInfo returns metadata for a path, following symlinks.
	FileInfo(path m.Path) (os.FileInfo, error)

	// IsDir reports whether path exists and is a directory.
	IsDir(path m.Path) bool

	// IsRegularFile reports whether path exists and is a regular file.
	IsRegularFile(path m.Path) bool

	// ReadDir lists the entries of a directory sorted by name.
	ReadDir(path m.Path) ([]os.FileInfo, error)

	// Glob returns the matches of pattern below root. The pattern uses
	// doublestar syntax and slash separators, relative to root.
	Glob(root m.Path, pattern string) ([]m.Path, error)

	// GlobWalk calls fn for every match of pattern below root as the tree
	// is walked. Returning ErrStopWalk from fn ends the walk without error.
	GlobWalk(root m.Path, pattern string, fn GlobWalkFunc) error
}

// GlobWalkFunc receives each glob match as an absolute path joined to the
// walk root.
type GlobWalkFunc func(path m.Path, d fs.DirEntry) error

// ErrStopWalk ends a GlobWalk early. It is never returned to the caller.
var ErrStopWalk = errors.New("stop walk")

// AferoFSAdapter implements FSAdapter on top of an afero filesystem.
type AferoFSAdapter struct {
	fs afero.Fs
}

// NewLocalFSAdapter constructs an adapter backed by the operating system.
func NewLocalFSAdapter() *AferoFSAdapter {
	return NewAferoFSAdapter(afero.NewOsFs())
}

// NewAferoFSAdapter constructs an adapter over the given afero filesystem.
func NewAferoFSAdapter(fsys afero.Fs) *AferoFSAdapter {
	return &AferoFSAdapter{fs: fsys}
}

// FileInfo returns os.FileInfo metadata for the given path.
func (a *AferoFSAdapter) FileInfo(path m.Path) (os.FileInfo, error) {
	return a.fs.Stat(string(path))
}

// IsDir reports whether path is an existing directory.
func (a *AferoFSAdapter) IsDir(path m.Path) bool {
	info, err := a.FileInfo(path)
	return err == nil && info.IsDir()
}

// IsRegularFile reports whether path is an existing regular file.
func (a *AferoFSAdapter) IsRegularFile(path m.Path) bool {
	info, err := a.FileInfo(path)
	return err == nil && info.Mode().IsRegular()
}

// ReadDir lists a directory.
func (a *AferoFSAdapter) ReadDir(path m.Path) ([]os.FileInfo, error) {
	return afero.ReadDir(a.fs, string(path))
}

// Glob returns every match of pattern below root.
func (a *AferoFSAdapter) Glob(root m.Path, pattern string) ([]m.Path, error) {
	matches, err := doublestar.Glob(a.rooted(root), pattern)
	if err != nil {
		return nil, err
	}

	paths := make([]m.Path, 0, len(matches))
	for _, match := range matches {
		paths = append(paths, root.Join(filepath.FromSlash(match)))
	}

	return paths, nil
}

// GlobWalk streams the matches of pattern below root into fn.
func (a *AferoFSAdapter) GlobWalk(root m.Path, pattern string, fn GlobWalkFunc) error {
	err := doublestar.GlobWalk(a.rooted(root), pattern, func(match string, d fs.DirEntry) error {
		return fn(root.Join(filepath.FromSlash(match)), d)
	})
	if errors.Is(err, ErrStopWalk) {
		return nil
	}

	return err
}

func (a *AferoFSAdapter) rooted(root m.Path) fs.FS {
	return afero.NewIOFS(afero.NewBasePathFs(a.fs, string(root)))
}
