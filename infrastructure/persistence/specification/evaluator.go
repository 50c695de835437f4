/*
Package specification applies domain specifications to GORM queries.

Evaluation order is fixed: criteria (AND), includes in declared order, ordering, paging.
*/
package specification

import (
	"fmt"
	"strings"

	"storefront/domain/shared"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Evaluate builds the query described by spec on top of db. The returned query is not executed.
// Ties in the requested ordering are broken by primary key so that pages are stable.
func Evaluate[T any](db *gorm.DB, spec *shared.Specification[T]) (*gorm.DB, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	query, err := applyCriteria(db.Model(new(T)), spec.Criteria())
	if err != nil {
		return nil, err
	}

	for _, include := range spec.Includes() {
		query = query.Preload(include)
	}

	if order, ok := spec.Ordering(); ok {
		query = applyOrdering(query, order.Key.Field, order.Key.FoldCase, order.Direction == shared.Descending)
	}

	if paging, ok := spec.Paging(); ok {
		query = query.Offset(paging.Skip).Limit(paging.Take)
	}
	return query, nil
}

// EvaluateCount builds the count query for spec. Only criteria apply.
func EvaluateCount[T any](db *gorm.DB, spec shared.CountSpecification[T]) (*gorm.DB, error) {
	return applyCriteria(db.Model(new(T)), spec.Criteria())
}

func applyCriteria[T any](query *gorm.DB, criteria []shared.Criterion[T]) (*gorm.DB, error) {
	translator := NewGormTranslator[T]()
	for _, c := range criteria {
		expr, err := translator.Translate(c)
		if err != nil {
			return nil, fmt.Errorf("translate criterion: %w", err)
		}
		query = query.Where(expr)
	}
	return query, nil
}

// applyOrdering orders by field. "Relation.column" joins the relation and orders by its column.
// foldCase orders by LOWER(column).
func applyOrdering(query *gorm.DB, field string, foldCase, desc bool) *gorm.DB {
	col := clause.Column{Table: clause.CurrentTable, Name: field}
	if relation, name, ok := strings.Cut(field, "."); ok {
		query = query.Joins(relation)
		col = clause.Column{Table: relation, Name: name}
	}
	if !foldCase {
		return query.
			Order(clause.OrderByColumn{Column: col, Desc: desc}).
			Order(clause.OrderByColumn{Column: clause.PrimaryColumn})
	}

	// 表达式与列排序不能合并，主键排序写进同一个表达式
	sql := "LOWER(?), ?"
	if desc {
		sql = "LOWER(?) DESC, ?"
	}
	return query.Order(clause.OrderBy{Expression: clause.Expr{SQL: sql, Vars: []any{col, clause.PrimaryColumn}}})
}
