package shared

import (
	"context"
)

// Criterion is a single filter condition over T.
// IsSatisfiedBy is used by in-memory stores; SQL stores translate the concrete criterion types
// they know about into WHERE clauses.
type Criterion[T any] interface {
	IsSatisfiedBy(ctx context.Context, entity T) bool
}

// AndCriterion represents the logical AND of two criteria
type AndCriterion[T any] struct {
	Left  Criterion[T]
	Right Criterion[T]
}

func (c AndCriterion[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	return c.Left.IsSatisfiedBy(ctx, entity) && c.Right.IsSatisfiedBy(ctx, entity)
}

// And creates a new AndCriterion
func And[T any](left, right Criterion[T]) Criterion[T] {
	return AndCriterion[T]{Left: left, Right: right}
}

// OrCriterion represents the logical OR of two criteria
type OrCriterion[T any] struct {
	Left  Criterion[T]
	Right Criterion[T]
}

func (c OrCriterion[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	return c.Left.IsSatisfiedBy(ctx, entity) || c.Right.IsSatisfiedBy(ctx, entity)
}

// Or creates a new OrCriterion
func Or[T any](left, right Criterion[T]) Criterion[T] {
	return OrCriterion[T]{Left: left, Right: right}
}

// NotCriterion represents the logical NOT of a criterion
type NotCriterion[T any] struct {
	Inner Criterion[T]
}

func (c NotCriterion[T]) IsSatisfiedBy(ctx context.Context, entity T) bool {
	return !c.Inner.IsSatisfiedBy(ctx, entity)
}

// Not creates a new NotCriterion
func Not[T any](inner Criterion[T]) Criterion[T] {
	return NotCriterion[T]{Inner: inner}
}

// MatchesAll reports whether entity satisfies every criterion. An empty list matches.
func MatchesAll[T any](ctx context.Context, criteria []Criterion[T], entity T) bool {
	for _, c := range criteria {
		if !c.IsSatisfiedBy(ctx, entity) {
			return false
		}
	}
	return true
}
