package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"nfind.dev/pkg/nfind/internal/adapter"
	"nfind.dev/pkg/nfind/internal/controller"
	"nfind.dev/pkg/nfind/internal/domain/filters"
	m "nfind.dev/pkg/nfind/internal/model"
)

var (
	// ErrNotADirectory is returned by Scan when the root is missing or is
	// not a directory.
	ErrNotADirectory = errors.New("not a directory")
	// ErrInvalidPattern is returned for empty or malformed glob patterns.
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

// DefaultProgressDescription labels the stage-1 progress of two-stage scans.
const DefaultProgressDescription = "Subjects"

// Scanner produces the files under a root that pass its filters.
//
// The returned sequence is lazy and walks the filesystem each time it is
// ranged over. Stopping the range stops the walk.
type Scanner interface {
	Scan(root m.Path) (iter.Seq[m.Path], error)
}

type config struct {
	patterns     []string
	stage1       []string
	stage2       []string
	filters      []filters.Filter
	logic        filters.Logic
	fs           adapter.FSAdapter
	progress     controller.Progress
	progressDesc string
}

// Option configures an explorer.
type Option func(*config)

// WithPatterns sets the single-stage search patterns. Each is matched
// recursively under the root.
func WithPatterns(patterns ...string) Option {
	return func(c *config) {
		c.patterns = patterns
	}
}

// WithStage1Patterns sets the patterns matched directly under the root to
// select the directories searched in stage 2.
func WithStage1Patterns(patterns ...string) Option {
	return func(c *config) {
		c.stage1 = patterns
	}
}

// WithStage2Patterns sets the patterns matched recursively inside every
// stage-1 directory.
func WithStage2Patterns(patterns ...string) Option {
	return func(c *config) {
		c.stage2 = patterns
	}
}

// WithFilters appends filters to the explorer's filter set.
func WithFilters(fs ...filters.Filter) Option {
	return func(c *config) {
		c.filters = append(c.filters, fs...)
	}
}

// WithLogic sets how the explorer's filters are combined. Defaults to And.
func WithLogic(logic filters.Logic) Option {
	return func(c *config) {
		c.logic = logic
	}
}

// WithFS sets the filesystem to scan. Defaults to the local filesystem.
func WithFS(fsys adapter.FSAdapter) Option {
	return func(c *config) {
		c.fs = fsys
	}
}

// WithProgress reports stage-1 progress of two-stage scans to p.
func WithProgress(p controller.Progress) Option {
	return func(c *config) {
		c.progress = p
	}
}

// WithProgressDescription sets the label passed to the progress sink.
func WithProgressDescription(desc string) Option {
	return func(c *config) {
		c.progressDesc = desc
	}
}

func newConfig(defaults []Option, opts []Option) (*config, *FilterSet, error) {
	c := &config{
		logic:        filters.And,
		progressDesc: DefaultProgressDescription,
	}

	for _, opt := range slices.Concat(defaults, opts) {
		opt(c)
	}

	if c.fs == nil {
		c.fs = adapter.NewLocalFSAdapter()
	}

	if c.progress == nil {
		c.progress = controller.NopProgress{}
	}

	set, err := NewFilterSet(c.logic, c.filters...)
	if err != nil {
		return nil, nil, err
	}

	return c, set, nil
}

// normalizePatterns strips leading separators and validates every pattern.
func normalizePatterns(kind string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: no %s patterns", ErrInvalidPattern, kind)
	}

	out := make([]string, 0, len(patterns))

	for _, p := range patterns {
		trimmed := strings.TrimLeft(p, "/")
		if trimmed == "" || !doublestar.ValidatePattern(trimmed) {
			return nil, fmt.Errorf("%w: %s pattern %q", ErrInvalidPattern, kind, p)
		}

		out = append(out, trimmed)
	}

	return out, nil
}

// recursive makes a pattern match at any depth below the walk root.
func recursive(pattern string) string {
	if pattern == "**" || strings.HasPrefix(pattern, "**/") {
		return pattern
	}

	return "**/" + pattern
}

func resolveRoot(fsys adapter.FSAdapter, root m.Path) (m.Path, error) {
	resolved, err := root.Resolve()
	if err != nil {
		return "", err
	}

	if !fsys.IsDir(resolved) {
		return "", fmt.Errorf("%w: %s", ErrNotADirectory, resolved)
	}

	return resolved, nil
}

// walk yields every regular file under root matching pattern and accepted by
// accept, once per pattern. It returns false once yield asks to stop.
func walk(fsys adapter.FSAdapter, root m.Path, pattern string, accept filters.Filter, yield func(m.Path) bool) bool {
	stopped := false

	// A pattern with several "**" segments matches a path once per way of
	// splitting it between them.
	seen := make(map[m.Path]struct{})

	err := fsys.GlobWalk(root, pattern, func(path m.Path, _ fs.DirEntry) error {
		if _, ok := seen[path]; ok {
			return nil
		}

		seen[path] = struct{}{}

		if !fsys.IsRegularFile(path) || !accept.Accept(path) {
			return nil
		}

		if !yield(path) {
			stopped = true
			return adapter.ErrStopWalk
		}

		return nil
	})
	if err != nil {
		slog.Warn("walk failed", "root", root, "pattern", pattern, "error", err)
	}

	return !stopped
}

// Explorer searches a tree with one or more recursive patterns.
//
// Find NIfTI files outside session directories:
//
//	e, _ := domain.NewExplorer(
//		domain.WithPatterns("*.nii*"),
//		domain.WithFilters(filters.ExcludeDirectoryPrefix("ses-")),
//	)
//	seq, err := e.Scan("~/datasets/ds001")
type Explorer struct {
	patterns []string
	fs       adapter.FSAdapter
	filters  *FilterSet
}

var _ Scanner = (*Explorer)(nil)

// NewExplorer returns a single-stage explorer. Patterns default to "*".
func NewExplorer(opts ...Option) (*Explorer, error) {
	c, set, err := newConfig([]Option{WithPatterns("*")}, opts)
	if err != nil {
		return nil, err
	}

	patterns, err := normalizePatterns("search", c.patterns)
	if err != nil {
		return nil, err
	}

	return &Explorer{
		patterns: patterns,
		fs:       c.fs,
		filters:  set,
	}, nil
}

// Filters returns the explorer's filter set.
func (e *Explorer) Filters() *FilterSet {
	return e.filters
}

// Patterns returns the search patterns.
func (e *Explorer) Patterns() []string {
	return slices.Clone(e.patterns)
}

// Scan walks root once per pattern. A file matched by several patterns is
// yielded once per match.
func (e *Explorer) Scan(root m.Path) (iter.Seq[m.Path], error) {
	resolved, err := resolveRoot(e.fs, root)
	if err != nil {
		return nil, err
	}

	accept := e.filters.Snapshot()

	return func(yield func(m.Path) bool) {
		for _, pattern := range e.patterns {
			if !walk(e.fs, resolved, recursive(pattern), accept, yield) {
				return
			}
		}
	}, nil
}

// TwoStageExplorer first selects directories directly under the root, then
// searches each of them recursively.
type TwoStageExplorer struct {
	stage1       []string
	stage2       []string
	fs           adapter.FSAdapter
	filters      *FilterSet
	progress     controller.Progress
	progressDesc string
}

var _ Scanner = (*TwoStageExplorer)(nil)

// NewTwoStageExplorer returns a two-stage explorer. Both stages default to "*".
func NewTwoStageExplorer(opts ...Option) (*TwoStageExplorer, error) {
	return newTwoStage([]Option{WithStage1Patterns("*"), WithStage2Patterns("*")}, opts)
}

// NewNiftiExplorer returns a two-stage explorer for subject-per-directory
// datasets: every directory under the root, NIfTI files inside them.
func NewNiftiExplorer(opts ...Option) (*TwoStageExplorer, error) {
	return newTwoStage([]Option{WithStage1Patterns("*"), WithStage2Patterns("*.nii*")}, opts)
}

func newTwoStage(defaults []Option, opts []Option) (*TwoStageExplorer, error) {
	c, set, err := newConfig(defaults, opts)
	if err != nil {
		return nil, err
	}

	stage1, err := normalizePatterns("stage-1", c.stage1)
	if err != nil {
		return nil, err
	}

	stage2, err := normalizePatterns("stage-2", c.stage2)
	if err != nil {
		return nil, err
	}

	return &TwoStageExplorer{
		stage1:       stage1,
		stage2:       stage2,
		fs:           c.fs,
		filters:      set,
		progress:     c.progress,
		progressDesc: c.progressDesc,
	}, nil
}

// Filters returns the explorer's filter set.
func (e *TwoStageExplorer) Filters() *FilterSet {
	return e.filters
}

// Units returns the stage-1 directories under root, in encounter order.
// Non-directory matches are skipped and directories matched by several
// patterns are listed once.
func (e *TwoStageExplorer) Units(root m.Path) ([]m.Path, error) {
	resolved, err := resolveRoot(e.fs, root)
	if err != nil {
		return nil, err
	}

	return e.units(resolved), nil
}

func (e *TwoStageExplorer) units(root m.Path) []m.Path {
	var dirs []m.Path

	seen := make(map[m.Path]struct{})

	for _, pattern := range e.stage1 {
		matches, err := e.fs.Glob(root, pattern)
		if err != nil {
			slog.Warn("stage-1 glob failed", "root", root, "pattern", pattern, "error", err)
			continue
		}

		for _, match := range matches {
			if _, ok := seen[match]; ok || !e.fs.IsDir(match) {
				continue
			}

			seen[match] = struct{}{}
			dirs = append(dirs, match)
		}
	}

	return dirs
}

// Scan lists the stage-1 directories when the sequence is first ranged over,
// then walks each one with every stage-2 pattern.
func (e *TwoStageExplorer) Scan(root m.Path) (iter.Seq[m.Path], error) {
	resolved, err := resolveRoot(e.fs, root)
	if err != nil {
		return nil, err
	}

	accept := e.filters.Snapshot()

	return func(yield func(m.Path) bool) {
		dirs := e.units(resolved)
		slog.Debug("stage-1 directories", "root", resolved, "count", len(dirs))

		for dir := range e.progress.Track(e.progressDesc, len(dirs), slices.Values(dirs)) {
			for _, pattern := range e.stage2 {
				if !walk(e.fs, dir, recursive(pattern), accept, yield) {
					return
				}
			}
		}
	}, nil
}
