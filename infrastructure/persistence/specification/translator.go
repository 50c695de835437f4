package specification

import (
	"strings"

	"storefront/domain/catalog"
	"storefront/domain/identity"
	"storefront/domain/shared"

	"gorm.io/gorm/clause"
)

// Translator converts domain criteria to GORM clause expressions
// Infrastructure layer handles framework-specific concerns; the domain only describes the filter.
type Translator[T any] interface {
	// Translate returns an error wrapping shared.ErrUnsupportedCriterion for unknown criteria.
	Translate(criterion shared.Criterion[T]) (clause.Expression, error)
}

// GormTranslator implements Translator for GORM
type GormTranslator[T any] struct{}

// NewGormTranslator creates a new GORM translator
func NewGormTranslator[T any]() GormTranslator[T] {
	return GormTranslator[T]{}
}

// Translate converts a domain criterion to a GORM expression
func (t GormTranslator[T]) Translate(criterion shared.Criterion[T]) (clause.Expression, error) {
	if criterion == nil {
		return nil, shared.NewUnsupportedCriterionError(criterion)
	}

	// Handle composite criteria
	switch c := any(criterion).(type) {
	case shared.AndCriterion[T]:
		return t.translatePair(c.Left, c.Right, func(l, r clause.Expression) clause.Expression {
			return clause.And(l, r)
		})
	case shared.OrCriterion[T]:
		return t.translatePair(c.Left, c.Right, func(l, r clause.Expression) clause.Expression {
			return clause.Or(l, r)
		})
	case shared.NotCriterion[T]:
		inner, err := t.Translate(c.Inner)
		if err != nil {
			return nil, err
		}
		return clause.Not(inner), nil
	}

	// Handle concrete criteria from domain packages
	if expr, ok := translateCatalog(criterion); ok {
		return expr, nil
	}
	if expr, ok := translateIdentity(criterion); ok {
		return expr, nil
	}

	// Unknown criterion type
	return nil, shared.NewUnsupportedCriterionError(criterion)
}

func (t GormTranslator[T]) translatePair(left, right shared.Criterion[T], join func(l, r clause.Expression) clause.Expression) (clause.Expression, error) {
	l, err := t.Translate(left)
	if err != nil {
		return nil, err
	}
	r, err := t.Translate(right)
	if err != nil {
		return nil, err
	}
	return join(l, r), nil
}

func column(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

// likeEscape is understood by MySQL, PostgreSQL and SQLite alike.
const likeEscape = "!"

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// containsFold renders a case-insensitive substring match on col.
func containsFold(col, search string) clause.Expression {
	pattern := "%" + likeReplacer.Replace(strings.ToLower(search)) + "%"
	return clause.Expr{
		SQL:  "LOWER(?) LIKE ? ESCAPE '" + likeEscape + "'",
		Vars: []any{column(col), pattern},
	}
}

func translateCatalog(criterion any) (clause.Expression, bool) {
	switch s := criterion.(type) {
	case catalog.NameContainsSpecification:
		return containsFold("name", s.Search), true
	case catalog.ByBrandSpecification:
		return clause.Eq{Column: column("product_brand_id"), Value: s.BrandID}, true
	case catalog.ByTypeSpecification:
		return clause.Eq{Column: column("product_type_id"), Value: s.TypeID}, true
	case catalog.ByIDSpecification:
		return clause.Eq{Column: column("id"), Value: s.ID}, true
	}
	return nil, false
}

func translateIdentity(criterion any) (clause.Expression, bool) {
	switch s := criterion.(type) {
	case identity.ByEmailSpecification:
		return clause.Expr{SQL: "LOWER(?) = ?", Vars: []any{column("email"), s.Email}}, true
	case identity.ByUserIDSpecification:
		return clause.Eq{Column: column("id"), Value: s.ID}, true
	case identity.RoleByNameSpecification:
		return clause.Eq{Column: column("name"), Value: s.Name}, true
	case identity.UserRolesOfUserSpecification:
		return clause.Eq{Column: column("user_id"), Value: s.UserID}, true
	case identity.AddressOfUserSpecification:
		return clause.Eq{Column: column("app_user_id"), Value: s.UserID}, true
	}
	return nil, false
}
