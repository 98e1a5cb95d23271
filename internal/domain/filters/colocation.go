package filters

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"nfind.dev/pkg/nfind/internal/adapter"
	m "nfind.dev/pkg/nfind/internal/model"
)

// SelfToken stands for the current file. As a file name pattern it means
// "a file with the same name"; inside a search location it marks where the
// current file's directory is substituted.
const SelfToken = "{self}"

// localFS backs every filter built without WithFS.
var localFS adapter.FSAdapter = adapter.NewLocalFSAdapter()

// CoLocation keeps files that have a companion file matching a pattern in a
// directory resolved relative to the file itself.
//
// Search locations:
//
//	{self}            the file's own directory
//	{self}../labels   a path relative to the file's directory
//	/labels{self}     the file's directory mirrored from the relative-to root onto /labels
//	/any/dir          an explicit directory, relative ones resolved from the file's directory
type CoLocation struct {
	pattern    string
	searchIn   string
	relativeTo m.Path
	fs         adapter.FSAdapter
}

// CoLocationOption configures a CoLocation filter.
type CoLocationOption func(*CoLocation)

// SearchIn sets the search location descriptor. Defaults to SelfToken.
func SearchIn(descriptor string) CoLocationOption {
	return func(c *CoLocation) {
		c.searchIn = descriptor
	}
}

// MirrorRelativeTo sets the root stripped from the file's directory when the
// search location mirrors it.
func MirrorRelativeTo(root m.Path) CoLocationOption {
	return func(c *CoLocation) {
		c.relativeTo = root
	}
}

// WithFS sets the filesystem used to list the search location.
func WithFS(fs adapter.FSAdapter) CoLocationOption {
	return func(c *CoLocation) {
		c.fs = fs
	}
}

// IncludeIfFileExists keeps files for which a regular file matching pattern
// exists in the resolved search location.
func IncludeIfFileExists(pattern string, opts ...CoLocationOption) (*CoLocation, error) {
	c := &CoLocation{
		pattern:  pattern,
		searchIn: SelfToken,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.fs == nil {
		c.fs = localFS
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// ExcludeIfFileExists drops files for which a regular file matching pattern
// exists in the resolved search location.
func ExcludeIfFileExists(pattern string, opts ...CoLocationOption) (Filter, error) {
	c, err := IncludeIfFileExists(pattern, opts...)
	if err != nil {
		return nil, err
	}

	return Not(c), nil
}

func (c *CoLocation) validate() error {
	if c.pattern == "" {
		return fmt.Errorf("%w: empty file name pattern", ErrInvalidPattern)
	}

	if c.pattern != SelfToken && !doublestar.ValidatePattern(c.pattern) {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, c.pattern)
	}

	if c.searchIn == "" {
		return fmt.Errorf("%w: empty search location", ErrInvalidLocation)
	}

	if c.mirrors() && c.relativeTo == "" {
		return fmt.Errorf("%w: %q mirrors the file's directory but no relative-to root is set", ErrInvalidLocation, c.searchIn)
	}

	return nil
}

func (c *CoLocation) mirrors() bool {
	return c.searchIn != SelfToken &&
		!strings.HasPrefix(c.searchIn, SelfToken) &&
		strings.HasSuffix(c.searchIn, SelfToken)
}

// Accept implements Filter. Any failure to list the search location counts
// as "no companion".
func (c *CoLocation) Accept(path m.Path) bool {
	dir, ok := c.ResolveTarget(path)
	if !ok {
		return false
	}

	entries, err := c.fs.ReadDir(dir)
	if err != nil {
		slog.Debug("companion directory unavailable", "path", path, "dir", dir, "error", err)
		return false
	}

	for _, entry := range entries {
		if !c.matchName(path, entry.Name()) {
			continue
		}

		if entry.Mode().IsRegular() {
			return true
		}

		if entry.Mode()&os.ModeSymlink != 0 && c.fs.IsRegularFile(dir.Join(entry.Name())) {
			return true
		}
	}

	return false
}

// ResolveTarget returns the directory searched for path's companion. ok is
// false when a mirrored location does not apply because path is not below
// the relative-to root.
func (c *CoLocation) ResolveTarget(path m.Path) (m.Path, bool) {
	parent := path.Parent()

	switch {
	case c.searchIn == SelfToken:
		return parent, true

	case strings.HasPrefix(c.searchIn, SelfToken):
		return parent.Join(strings.TrimPrefix(c.searchIn, SelfToken)), true

	case strings.HasSuffix(c.searchIn, SelfToken):
		rel, ok := parent.Rel(c.relativeTo)
		if !ok {
			return "", false
		}

		mirrorRoot := m.Path(strings.TrimSuffix(c.searchIn, SelfToken))
		if !mirrorRoot.IsAbs() {
			mirrorRoot = c.relativeTo.Join(string(mirrorRoot))
		}

		return mirrorRoot.Join(string(rel)), true

	default:
		explicit := m.Path(c.searchIn)
		if explicit.IsAbs() {
			return m.Path(explicit.Join()), true
		}

		return parent.Join(c.searchIn), true
	}
}

func (c *CoLocation) matchName(path m.Path, name string) bool {
	if c.pattern == SelfToken {
		return name == path.Name()
	}

	ok, err := doublestar.Match(c.pattern, name)

	return err == nil && ok
}

// equal also requires the same filesystem, which String leaves out.
func (c *CoLocation) equal(other *CoLocation) bool {
	return c.pattern == other.pattern &&
		c.searchIn == other.searchIn &&
		c.relativeTo == other.relativeTo &&
		c.fs == other.fs
}

func (c *CoLocation) String() string {
	return fmt.Sprintf("exists(%q, in=%q, relative-to=%q)", c.pattern, c.searchIn, c.relativeTo)
}
