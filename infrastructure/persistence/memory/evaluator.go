package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"storefront/domain/shared"
)

// Includer hydrates a named relation of an entity.
type Includer[T any] interface {
	Include(entity *T, relation string) error
}

// Evaluate applies spec to rows: criteria (AND), includes in declared order, ordering, paging.
// rows are expected in primary key order; the stable sort keeps that order for ties.
// A relation used by the ordering is hydrated even when it is not included.
func Evaluate[T any](ctx context.Context, rows []T, spec *shared.Specification[T], includer Includer[T]) ([]T, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if spec.Matches(ctx, r) {
			out = append(out, r)
		}
	}

	includes := spec.Includes()
	order, ordered := spec.Ordering()
	if ordered {
		if relation, _, ok := strings.Cut(order.Key.Field, "."); ok && !slices.Contains(includes, relation) {
			includes = append(includes, relation)
		}
	}
	for _, relation := range includes {
		if includer == nil {
			return nil, fmt.Errorf("unsupported relation %q", relation)
		}
		for i := range out {
			if err := includer.Include(&out[i], relation); err != nil {
				return nil, err
			}
		}
	}

	if ordered {
		slices.SortStableFunc(out, order.Compare)
	}

	if paging, ok := spec.Paging(); ok {
		if paging.Skip >= len(out) {
			return []T{}, nil
		}
		end := min(paging.Skip+paging.Take, len(out))
		out = out[paging.Skip:end]
	}
	return out, nil
}

// EvaluateCount counts the rows matching every criterion of spec.
func EvaluateCount[T any](ctx context.Context, rows []T, spec shared.CountSpecification[T]) int64 {
	var n int64
	for _, r := range rows {
		if spec.Matches(ctx, r) {
			n++
		}
	}
	return n
}
