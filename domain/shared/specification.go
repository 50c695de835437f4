package shared

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// Direction of an ordering. The zero value means "no ordering".
type Direction int

const (
	Ascending Direction = iota + 1
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "none"
	}
}

// SortKey names what to order by.
// Field is the storage path of the column: "price" for a column of T itself, or
// "ProductBrand.name" for a column of an eagerly loaded relation. Compare orders two
// in-memory values ascending. FoldCase orders a text column case-insensitively, the
// SQL side as LOWER(column); Compare must then fold too, see CompareFold.
type SortKey[T any] struct {
	Field    string
	FoldCase bool
	Compare  func(a, b T) int
}

// CompareFold compares two strings ignoring case.
func CompareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Ordering is the single active ordering of a specification.
type Ordering[T any] struct {
	Key       SortKey[T]
	Direction Direction
}

// Compare applies the key comparator in the ordering's direction.
func (o Ordering[T]) Compare(a, b T) int {
	c := o.Key.Compare(a, b)
	if o.Direction == Descending {
		return -c
	}
	return c
}

// Paging selects a window of the ordered result.
type Paging struct {
	Skip int
	Take int
}

// PageOffset converts a 1-based page index into the number of rows to skip.
func PageOffset(pageIndex, pageSize int) int {
	return pageSize * (pageIndex - 1)
}

// Specification describes a query over T: criteria joined by AND, eager-load includes,
// at most one ordering and optional paging. Building a specification never touches storage.
//
// Concrete specifications are constructor functions that start from NewSpecification and
// call the builder methods.
type Specification[T any] struct {
	criteria []Criterion[T]
	includes []string
	order    *Ordering[T]
	paging   *Paging
}

// NewSpecification creates a specification with the given criteria.
func NewSpecification[T any](criteria ...Criterion[T]) *Specification[T] {
	s := &Specification[T]{}
	return s.Where(criteria...)
}

// Where appends criteria. Nil criteria are ignored.
func (s *Specification[T]) Where(criteria ...Criterion[T]) *Specification[T] {
	for _, c := range criteria {
		if c != nil {
			s.criteria = append(s.criteria, c)
		}
	}
	return s
}

// Include adds relations to eager load, keeping declaration order. Repeats are dropped.
func (s *Specification[T]) Include(relations ...string) *Specification[T] {
	for _, r := range relations {
		if r != "" && !slices.Contains(s.includes, r) {
			s.includes = append(s.includes, r)
		}
	}
	return s
}

// OrderBy sets ascending ordering, replacing any previous ordering.
func (s *Specification[T]) OrderBy(key SortKey[T]) *Specification[T] {
	s.order = &Ordering[T]{Key: key, Direction: Ascending}
	return s
}

// OrderByDescending sets descending ordering, replacing any previous ordering.
func (s *Specification[T]) OrderByDescending(key SortKey[T]) *Specification[T] {
	s.order = &Ordering[T]{Key: key, Direction: Descending}
	return s
}

// ApplyPaging enables paging. Values are checked by Validate.
func (s *Specification[T]) ApplyPaging(skip, take int) *Specification[T] {
	s.paging = &Paging{Skip: skip, Take: take}
	return s
}

// WithoutPaging returns a copy of the specification with paging disabled.
func (s *Specification[T]) WithoutPaging() *Specification[T] {
	if s == nil {
		return nil
	}
	cp := &Specification[T]{
		criteria: slices.Clone(s.criteria),
		includes: slices.Clone(s.includes),
	}
	if s.order != nil {
		o := *s.order
		cp.order = &o
	}
	return cp
}

func (s *Specification[T]) Criteria() []Criterion[T] {
	if s == nil {
		return nil
	}
	return slices.Clone(s.criteria)
}

func (s *Specification[T]) Includes() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.includes)
}

// Ordering returns the active ordering, if any.
func (s *Specification[T]) Ordering() (Ordering[T], bool) {
	if s == nil || s.order == nil {
		return Ordering[T]{}, false
	}
	return *s.order, true
}

// Paging returns the paging window, if enabled.
func (s *Specification[T]) Paging() (Paging, bool) {
	if s == nil || s.paging == nil {
		return Paging{}, false
	}
	return *s.paging, true
}

// Matches reports whether entity satisfies every criterion.
func (s *Specification[T]) Matches(ctx context.Context, entity T) bool {
	if s == nil {
		return true
	}
	return MatchesAll(ctx, s.criteria, entity)
}

// Validate rejects malformed paging and orderings without a comparator.
func (s *Specification[T]) Validate() error {
	if s == nil {
		return nil
	}
	if s.paging != nil {
		if s.paging.Skip < 0 {
			return NewValidationError("specification", "skip", fmt.Sprintf("skip must be >= 0, got %d", s.paging.Skip))
		}
		if s.paging.Take <= 0 {
			return NewValidationError("specification", "take", fmt.Sprintf("take must be > 0, got %d", s.paging.Take))
		}
	}
	if s.order != nil && (s.order.Key.Field == "" || s.order.Key.Compare == nil) {
		return NewValidationError("specification", "order", "ordering needs a field and a comparator")
	}
	return nil
}

// CountSpecification carries criteria only. It has no includes, ordering or paging, so a
// count can never be skewed by them.
type CountSpecification[T any] struct {
	criteria []Criterion[T]
}

// NewCountSpecification creates a count specification with the given criteria.
func NewCountSpecification[T any](criteria ...Criterion[T]) CountSpecification[T] {
	c := CountSpecification[T]{}
	for _, cr := range criteria {
		if cr != nil {
			c.criteria = append(c.criteria, cr)
		}
	}
	return c
}

// CountOf derives the count specification that matches the same rows as spec before paging.
func CountOf[T any](spec *Specification[T]) CountSpecification[T] {
	return NewCountSpecification(spec.Criteria()...)
}

func (c CountSpecification[T]) Criteria() []Criterion[T] {
	return slices.Clone(c.criteria)
}

func (c CountSpecification[T]) Matches(ctx context.Context, entity T) bool {
	return MatchesAll(ctx, c.criteria, entity)
}
