package filters

import (
	"fmt"
	"strings"

	m "nfind.dev/pkg/nfind/internal/model"
)

// Composite combines filters with AND or OR logic.
//
// Support both ".nii.gz" and ".nii" files:
//
//	f, _ := filters.NewComposite(filters.Or, filters.IncludeExtension("nii.gz"), filters.IncludeExtension("nii"))
//	f.Accept("path/to/file.nii.gz") // true
type Composite struct {
	filters []Filter
	logic   Logic
}

// NewComposite validates the logic and members and returns a composite over
// a copy of filters.
func NewComposite(logic Logic, filters ...Filter) (*Composite, error) {
	if !logic.Valid() {
		return nil, fmt.Errorf("%w, got %s", ErrInvalidLogic, logic)
	}

	if err := CheckFilters(filters); err != nil {
		return nil, err
	}

	return &Composite{
		filters: append([]Filter(nil), filters...),
		logic:   logic,
	}, nil
}

// All is NewComposite(And, filters...).
func All(filters ...Filter) (*Composite, error) {
	return NewComposite(And, filters...)
}

// Any is NewComposite(Or, filters...).
func Any(filters ...Filter) (*Composite, error) {
	return NewComposite(Or, filters...)
}

// Accept reduces the children in order, stopping at the first false under
// AND and at the first true under OR. An empty composite returns the
// logic's identity.
func (c *Composite) Accept(path m.Path) bool {
	if c.logic == Or {
		for _, f := range c.filters {
			if f.Accept(path) {
				return true
			}
		}

		return false
	}

	for _, f := range c.filters {
		if !f.Accept(path) {
			return false
		}
	}

	return true
}

// Logic returns the reduction logic.
func (c *Composite) Logic() Logic {
	return c.logic
}

// Filters returns a copy of the direct children.
func (c *Composite) Filters() []Filter {
	return append([]Filter(nil), c.filters...)
}

// Flatten returns a new composite where every child composite sharing this
// composite's logic is replaced by its own children, recursively. Children
// with the other logic are kept as groups, flattened in turn. Order is
// preserved and the result accepts exactly the same paths.
func (c *Composite) Flatten() *Composite {
	return &Composite{
		filters: c.appendFlat(nil, c.logic),
		logic:   c.logic,
	}
}

func (c *Composite) appendFlat(dst []Filter, logic Logic) []Filter {
	for _, f := range c.filters {
		if child, ok := f.(*Composite); ok {
			if child.logic == logic {
				dst = child.appendFlat(dst, logic)
			} else {
				dst = append(dst, child.Flatten())
			}

			continue
		}

		dst = append(dst, f)
	}

	return dst
}

// Len returns the number of children after flattening.
func (c *Composite) Len() int {
	return len(c.appendFlat(nil, c.logic))
}

func (c *Composite) String() string {
	parts := make([]string, 0, len(c.filters))
	for _, f := range c.filters {
		parts = append(parts, describe(f))
	}

	return strings.ToLower(c.logic.String()) + "(" + strings.Join(parts, ", ") + ")"
}

func (c *Composite) equal(other *Composite) bool {
	if c.logic != other.logic || len(c.filters) != len(other.filters) {
		return false
	}

	for i := range c.filters {
		if !Equal(c.filters[i], other.filters[i]) {
			return false
		}
	}

	return true
}
