// Package filters provides the path predicates nfind applies to candidate
// files: name and directory matchers, their negations, AND/OR composition
// and the co-location check for companion files.
package filters

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	m "nfind.dev/pkg/nfind/internal/model"
)

var (
	// ErrInvalidLogic is returned for logic tokens other than AND and OR.
	ErrInvalidLogic = errors.New("logic must be 'AND' or 'OR'")
	// ErrNilFilter is returned when a nil filter is composed or added.
	ErrNilFilter = errors.New("nil filter")
	// ErrInvalidRegex wraps regular expression compilation failures.
	ErrInvalidRegex = errors.New("invalid regex")
	// ErrInvalidPattern wraps malformed glob patterns.
	ErrInvalidPattern = errors.New("invalid glob pattern")
	// ErrInvalidLocation is returned for search locations that cannot be
	// resolved, such as mirroring without a relative-to root.
	ErrInvalidLocation = errors.New("invalid search location")
	// ErrInvalidSpec is returned for filter rules that cannot be built.
	ErrInvalidSpec = errors.New("invalid filter spec")
)

// Filter decides whether a path is kept.
type Filter interface {
	Accept(path m.Path) bool
}

// FilterFunc adapts an ordinary function to the Filter interface.
type FilterFunc func(path m.Path) bool

// Accept calls f(path).
func (f FilterFunc) Accept(path m.Path) bool {
	return f(path)
}

// Logic selects how a group of filters is reduced.
type Logic int

// Available Logic values.
const (
	And Logic = iota
	Or
)

// ParseLogic converts "and"/"or" (any case) into a Logic.
func ParseLogic(token string) (Logic, error) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "AND":
		return And, nil
	case "OR":
		return Or, nil
	}

	return And, fmt.Errorf("%w, got %q", ErrInvalidLogic, token)
}

// Valid reports whether l is And or Or.
func (l Logic) Valid() bool {
	return l == And || l == Or
}

// String returns "AND" or "OR".
func (l Logic) String() string {
	switch l {
	case And:
		return "AND"
	case Or:
		return "OR"
	}

	return fmt.Sprintf("Logic(%d)", int(l))
}

// Identity is the result of reducing an empty group: true for AND, false
// for OR.
func (l Logic) Identity() bool {
	return l == And
}

// Not negates a filter.
func Not(f Filter) Filter {
	return not{inner: f}
}

type not struct {
	inner Filter
}

func (n not) Accept(path m.Path) bool {
	return !n.inner.Accept(path)
}

func (n not) String() string {
	return "not(" + describe(n.inner) + ")"
}

// Equal reports whether two filters are the same value: same concrete type
// and same parameters. Negations and composites compare their children,
// co-location filters also compare their filesystem, and other filters
// compare by description. Filters without a description (such as
// FilterFunc) are only equal when reflect.DeepEqual says so.
func Equal(a, b Filter) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	switch av := a.(type) {
	case not:
		return Equal(av.inner, b.(not).inner)
	case *Composite:
		return av.equal(b.(*Composite))
	case *CoLocation:
		return av.equal(b.(*CoLocation))
	}

	as, aok := a.(fmt.Stringer)
	bs, bok := b.(fmt.Stringer)

	if aok && bok {
		return as.String() == bs.String()
	}

	return reflect.DeepEqual(a, b)
}

// CheckFilters returns ErrNilFilter naming every nil position in fs.
func CheckFilters(fs []Filter) error {
	var bad []string

	for i, f := range fs {
		if f == nil || isNilPointer(f) {
			bad = append(bad, fmt.Sprintf("#%d", i))
		}
	}

	if len(bad) > 0 {
		return fmt.Errorf("%w: all items must be filters, got nil at %s", ErrNilFilter, strings.Join(bad, ", "))
	}

	return nil
}

func isNilPointer(f Filter) bool {
	v := reflect.ValueOf(f)

	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

func describe(f Filter) string {
	if s, ok := f.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%T", f)
}
