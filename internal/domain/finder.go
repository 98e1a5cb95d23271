package domain

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	m "nfind.dev/pkg/nfind/internal/model"
)

// Query selects how each root's results are materialized.
type Query struct {
	List ListOptions
	// First keeps only the first accepted path.
	First bool
	// CountOnly counts accepted paths without keeping them. List.Limit caps
	// the count.
	CountOnly bool
	// BatchSize groups the listed paths into batches when set.
	BatchSize int
}

// Finder runs a Scanner over several roots.
type Finder interface {
	Find(ctx context.Context, roots []m.Path, q Query) ([]m.RootResult, error)
}

type finder struct {
	Scanner
	parallel int
}

// NewFinder returns a Finder scanning up to parallel roots at once. Values
// below 1 scan the roots one after the other.
func NewFinder(scanner Scanner, parallel int) Finder {
	if parallel < 1 {
		parallel = 1
	}

	return &finder{
		Scanner:  scanner,
		parallel: parallel,
	}
}

// Find returns one result per root, in the order of roots. The first root
// that cannot be scanned aborts the run.
func (f *finder) Find(ctx context.Context, roots []m.Path, q Query) ([]m.RootResult, error) {
	if q.BatchSize < 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidBatchSize, q.BatchSize)
	}

	results := make([]m.RootResult, len(roots))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(f.parallel)

	for i, root := range roots {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			seq, err := f.Scan(root)
			if err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}

			results[i] = materialize(root, untilDone(ctx, seq), q)
			slog.Debug("root scanned", "root", root, "count", results[i].Count)

			return ctx.Err()
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func materialize(root m.Path, seq iter.Seq[m.Path], q Query) m.RootResult {
	result := m.RootResult{Root: root}

	switch {
	case q.CountOnly:
		result.Count = Count(seq, q.List.Limit)
	case q.First:
		if p, ok := First(seq); ok {
			result.Paths = []m.Path{p}
		}

		result.Count = len(result.Paths)
	default:
		result.Paths = List(seq, q.List)
		result.Count = len(result.Paths)
	}

	if q.BatchSize > 0 && !q.CountOnly {
		batches, err := Batched(slices.Values(result.Paths), q.BatchSize)
		if err == nil {
			result.Batches = slices.Collect(batches)
		}
	}

	return result
}

// untilDone stops seq once ctx is cancelled.
func untilDone(ctx context.Context, seq iter.Seq[m.Path]) iter.Seq[m.Path] {
	return func(yield func(m.Path) bool) {
		for p := range seq {
			if ctx.Err() != nil || !yield(p) {
				return
			}
		}
	}
}
