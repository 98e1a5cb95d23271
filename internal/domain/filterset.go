package domain

import (
	"errors"
	"fmt"
	"strings"

	"nfind.dev/pkg/nfind/internal/domain/filters"
	m "nfind.dev/pkg/nfind/internal/model"
)

var (
	// ErrFilterNotFound is returned by FilterSet.Remove for values not in the set.
	ErrFilterNotFound = errors.New("filter not found")
	// ErrIndexOutOfRange is returned by FilterSet.RemoveAt.
	ErrIndexOutOfRange = errors.New("filter index out of range")
)

// FilterSet is the mutable, ordered list of filters an explorer applies,
// reduced with a single logic.
//
// FilterSet is not safe for concurrent mutation. Scans take a Snapshot when
// they start, so changes made afterwards only affect later scans.
type FilterSet struct {
	list  []filters.Filter
	logic filters.Logic
}

// NewFilterSet returns a set holding fs in order.
func NewFilterSet(logic filters.Logic, fs ...filters.Filter) (*FilterSet, error) {
	if !logic.Valid() {
		return nil, fmt.Errorf("%w, got %s", filters.ErrInvalidLogic, logic)
	}

	s := &FilterSet{logic: logic}
	if err := s.Add(fs...); err != nil {
		return nil, err
	}

	return s, nil
}

// Add appends filters. Nothing is added if any of them is nil.
func (s *FilterSet) Add(fs ...filters.Filter) error {
	if err := filters.CheckFilters(fs); err != nil {
		return err
	}

	s.list = append(s.list, fs...)

	return nil
}

// Remove deletes the first occurrence of each value, compared with
// filters.Equal. Nothing is removed if any value is missing.
func (s *FilterSet) Remove(fs ...filters.Filter) error {
	if err := filters.CheckFilters(fs); err != nil {
		return err
	}

	remaining := append([]filters.Filter(nil), s.list...)

	var missing []string

	for _, target := range fs {
		idx := -1

		for i, f := range remaining {
			if filters.Equal(f, target) {
				idx = i
				break
			}
		}

		if idx < 0 {
			missing = append(missing, fmt.Sprint(target))
			continue
		}

		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrFilterNotFound, strings.Join(missing, ", "))
	}

	s.list = remaining

	return nil
}

// RemoveAt deletes the filter at position i. Negative positions count from
// the end, so -1 is the last filter.
func (s *FilterSet) RemoveAt(i int) error {
	idx := i
	if idx < 0 {
		idx += len(s.list)
	}

	if idx < 0 || idx >= len(s.list) {
		return fmt.Errorf("%w: %d not in [-%d, %d)", ErrIndexOutOfRange, i, len(s.list), len(s.list))
	}

	s.list = append(s.list[:idx:idx], s.list[idx+1:]...)

	return nil
}

// Clear removes every filter.
func (s *FilterSet) Clear() {
	s.list = nil
}

// Filters returns a copy of the current filters.
func (s *FilterSet) Filters() []filters.Filter {
	return append([]filters.Filter(nil), s.list...)
}

// Len returns the number of filters.
func (s *FilterSet) Len() int {
	return len(s.list)
}

// Logic returns the reduction logic.
func (s *FilterSet) Logic() filters.Logic {
	return s.logic
}

// SetLogic changes the reduction logic.
func (s *FilterSet) SetLogic(logic filters.Logic) error {
	if !logic.Valid() {
		return fmt.Errorf("%w, got %s", filters.ErrInvalidLogic, logic)
	}

	s.logic = logic

	return nil
}

// Accept applies the current filters to path. An empty AND set accepts
// everything.
func (s *FilterSet) Accept(path m.Path) bool {
	for _, f := range s.list {
		if f.Accept(path) == (s.logic == filters.Or) {
			return s.logic == filters.Or
		}
	}

	return s.logic.Identity()
}

// Snapshot returns an immutable filter over the current list and logic.
func (s *FilterSet) Snapshot() filters.Filter {
	snapshot, err := filters.NewComposite(s.logic, s.list...)
	if err != nil {
		// Members and logic are validated on every mutation.
		panic(err)
	}

	return snapshot
}

func (s *FilterSet) String() string {
	return fmt.Sprint(s.Snapshot())
}
