package domain

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	m "nfind.dev/pkg/nfind/internal/model"
)

// ErrInvalidBatchSize is returned by Batched for sizes below 1.
var ErrInvalidBatchSize = errors.New("batch size must be at least 1")

// ListOptions controls List.
type ListOptions struct {
	// Sort orders the result lexically.
	Sort bool
	// Unique drops repeated paths, keeping the first occurrence.
	Unique bool
	// Limit stops pulling after this many paths. Zero means no limit.
	Limit int
}

// List collects seq. The limit is applied while pulling, before Unique and
// Sort.
func List(seq iter.Seq[m.Path], opts ListOptions) []m.Path {
	var items []m.Path

	for p := range seq {
		items = append(items, p)
		if opts.Limit > 0 && len(items) >= opts.Limit {
			break
		}
	}

	if opts.Unique {
		seen := make(map[m.Path]struct{}, len(items))
		items = slices.DeleteFunc(items, func(p m.Path) bool {
			if _, ok := seen[p]; ok {
				return true
			}

			seen[p] = struct{}{}

			return false
		})
	}

	if opts.Sort {
		slices.Sort(items)
	}

	return items
}

// First returns the first path of seq.
func First(seq iter.Seq[m.Path]) (m.Path, bool) {
	for p := range seq {
		return p, true
	}

	return "", false
}

// Any reports whether seq yields at least one path.
func Any(seq iter.Seq[m.Path]) bool {
	_, ok := First(seq)
	return ok
}

// Count counts the paths of seq, stopping at limit when limit > 0.
func Count(seq iter.Seq[m.Path], limit int) int {
	n := 0

	for range seq {
		n++
		if limit > 0 && n >= limit {
			break
		}
	}

	return n
}

// Batched groups seq into slices of size paths. The last batch holds the
// remainder and is never empty.
func Batched(seq iter.Seq[m.Path], size int) (iter.Seq[[]m.Path], error) {
	if size < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidBatchSize, size)
	}

	return func(yield func([]m.Path) bool) {
		batch := make([]m.Path, 0, size)

		for p := range seq {
			batch = append(batch, p)
			if len(batch) < size {
				continue
			}

			if !yield(batch) {
				return
			}

			batch = make([]m.Path, 0, size)
		}

		if len(batch) > 0 {
			yield(batch)
		}
	}, nil
}
