package catalog

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"

	"storefront/domain/shared"
)

// NameContainsSpecification matches products whose lower-cased name contains Search.
// Search is expected to be lower-case already.
type NameContainsSpecification struct {
	Search string
}

func (spec NameContainsSpecification) IsSatisfiedBy(ctx context.Context, p Product) bool {
	return strings.Contains(strings.ToLower(p.Name), spec.Search)
}

type ByBrandSpecification struct {
	BrandID int
}

func (spec ByBrandSpecification) IsSatisfiedBy(ctx context.Context, p Product) bool {
	return p.ProductBrandID == spec.BrandID
}

type ByTypeSpecification struct {
	TypeID int
}

func (spec ByTypeSpecification) IsSatisfiedBy(ctx context.Context, p Product) bool {
	return p.ProductTypeID == spec.TypeID
}

type ByIDSpecification struct {
	ID int
}

func (spec ByIDSpecification) IsSatisfiedBy(ctx context.Context, p Product) bool {
	return p.ID == spec.ID
}

func NewNameContainsSpecification(search string) shared.Criterion[Product] {
	return NameContainsSpecification{Search: strings.ToLower(search)}
}
func NewByBrandSpecification(brandID int) shared.Criterion[Product] {
	return ByBrandSpecification{BrandID: brandID}
}
func NewByTypeSpecification(typeID int) shared.Criterion[Product] {
	return ByTypeSpecification{TypeID: typeID}
}
func NewByIDSpecification(id int) shared.Criterion[Product] {
	return ByIDSpecification{ID: id}
}

// Sort keys. Relation keys compare by the loaded relation, so the relation must be included.
var (
	SortByID = shared.SortKey[Product]{Field: "id", Compare: func(a, b Product) int {
		return cmp.Compare(a.ID, b.ID)
	}}
	SortByName = shared.SortKey[Product]{Field: "name", FoldCase: true, Compare: func(a, b Product) int {
		return shared.CompareFold(a.Name, b.Name)
	}}
	SortByPrice = shared.SortKey[Product]{Field: "price", Compare: func(a, b Product) int {
		return cmp.Compare(a.Price, b.Price)
	}}
	SortByBrandName = shared.SortKey[Product]{Field: IncludeProductBrand + ".name", FoldCase: true, Compare: func(a, b Product) int {
		return shared.CompareFold(a.BrandName(), b.BrandName())
	}}
	SortByTypeName = shared.SortKey[Product]{Field: IncludeProductType + ".name", FoldCase: true, Compare: func(a, b Product) int {
		return shared.CompareFold(a.TypeName(), b.TypeName())
	}}
)

type sortToken struct {
	key  shared.SortKey[Product]
	desc bool
}

var sortTokens = map[string]sortToken{
	"idAsc":     {SortByID, false},
	"idDesc":    {SortByID, true},
	"nameAsc":   {SortByName, false},
	"nameDesc":  {SortByName, true},
	"priceAsc":  {SortByPrice, false},
	"priceDesc": {SortByPrice, true},
	"brandAsc":  {SortByBrandName, false},
	"brandDesc": {SortByBrandName, true},
	"typeAsc":   {SortByTypeName, false},
	"typeDesc":  {SortByTypeName, true},
}

// SortTokens lists the accepted sort tokens.
func SortTokens() []string {
	return slices.Sorted(maps.Keys(sortTokens))
}

// applySort sets the ordering named by token. Unknown or empty tokens order by name ascending.
func applySort(spec *shared.Specification[Product], token string) {
	t, ok := sortTokens[token]
	if !ok {
		spec.OrderBy(SortByName)
		return
	}
	if t.desc {
		spec.OrderByDescending(t.key)
		return
	}
	spec.OrderBy(t.key)
}

func filterCriteria(params ProductSpecParams) []shared.Criterion[Product] {
	var criteria []shared.Criterion[Product]
	if params.Search != "" {
		criteria = append(criteria, NewNameContainsSpecification(params.Search))
	}
	if params.BrandID != nil {
		criteria = append(criteria, NewByBrandSpecification(*params.BrandID))
	}
	if params.TypeID != nil {
		criteria = append(criteria, NewByTypeSpecification(*params.TypeID))
	}
	return criteria
}

// NewProductsWithTypesAndBrandsSpec builds the list query: filters from params, type, brand and
// photos included, ordering by params.Sort and a page window. params must be normalized.
func NewProductsWithTypesAndBrandsSpec(params ProductSpecParams) *shared.Specification[Product] {
	spec := shared.NewSpecification(filterCriteria(params)...).
		Include(IncludeProductType, IncludeProductBrand, IncludePhotos)
	applySort(spec, params.Sort)
	spec.ApplyPaging(shared.PageOffset(params.PageIndex, params.PageSize), params.PageSize)
	return spec
}

// NewProductsWithFiltersForCountSpec matches the same rows as the list query before paging.
func NewProductsWithFiltersForCountSpec(params ProductSpecParams) shared.CountSpecification[Product] {
	return shared.NewCountSpecification(filterCriteria(params)...)
}

// NewProductWithTypesAndBrandsSpec selects one product by id with its relations.
func NewProductWithTypesAndBrandsSpec(id int) *shared.Specification[Product] {
	return shared.NewSpecification(NewByIDSpecification(id)).
		Include(IncludeProductType, IncludeProductBrand, IncludePhotos)
}

// NewBrandsSpec and NewTypesSpec list lookups ordered by name.
func NewBrandsSpec() *shared.Specification[ProductBrand] {
	return shared.NewSpecification[ProductBrand]().OrderBy(shared.SortKey[ProductBrand]{
		Field:    "name",
		FoldCase: true,
		Compare:  func(a, b ProductBrand) int { return shared.CompareFold(a.Name, b.Name) },
	})
}

func NewTypesSpec() *shared.Specification[ProductType] {
	return shared.NewSpecification[ProductType]().OrderBy(shared.SortKey[ProductType]{
		Field:    "name",
		FoldCase: true,
		Compare:  func(a, b ProductType) int { return shared.CompareFold(a.Name, b.Name) },
	})
}
