package database

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"storefront/domain/catalog"
	"storefront/domain/identity"
	"storefront/domain/shared"

	"github.com/stretchr/testify/require"
)

func listPage(t *testing.T, uow *UnitOfWork, params catalog.ProductSpecParams) shared.Pagination[catalog.Product] {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, params.Normalize())

	count, err := uow.Products().Count(ctx, catalog.NewProductsWithFiltersForCountSpec(params))
	require.NoError(t, err)
	data, err := uow.Products().ListWithSpec(ctx, catalog.NewProductsWithTypesAndBrandsSpec(params))
	require.NoError(t, err)
	return shared.NewPagination(params.PageIndex, params.PageSize, count, data)
}

func names(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestListWithSpecSecondPage(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db, 25)
	uow := NewUnitOfWork(db, nil)

	page := listPage(t, uow, catalog.ProductSpecParams{PageIndex: 2, PageSize: 10})

	require.EqualValues(t, 25, page.Count)
	require.Equal(t, 2, page.PageIndex)
	require.Equal(t, 10, page.PageSize)
	require.Equal(t, []string{
		"Product 11", "Product 12", "Product 13", "Product 14", "Product 15",
		"Product 16", "Product 17", "Product 18", "Product 19", "Product 20",
	}, names(page.Data))

	for _, p := range page.Data {
		require.NotNil(t, p.ProductBrand, "brand should be eager loaded")
		require.NotNil(t, p.ProductType, "type should be eager loaded")
		require.Len(t, p.Photos, 1)
	}
}

func TestListWithSpecLastPartialPage(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db, 25)
	uow := NewUnitOfWork(db, nil)

	page := listPage(t, uow, catalog.ProductSpecParams{PageIndex: 3, PageSize: 10})
	require.Len(t, page.Data, 5)

	page = listPage(t, uow, catalog.ProductSpecParams{PageIndex: 4, PageSize: 10})
	require.Empty(t, page.Data)
	require.EqualValues(t, 25, page.Count)
}

func TestListWithSpecNoMatches(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db, 5)
	uow := NewUnitOfWork(db, nil)

	page := listPage(t, uow, catalog.ProductSpecParams{Search: "shoe"})
	require.EqualValues(t, 0, page.Count)
	require.Empty(t, page.Data)

	body, err := json.Marshal(page)
	require.NoError(t, err)
	require.JSONEq(t, `{"pageIndex":1,"pageSize":6,"count":0,"data":[]}`, string(body))
}

func TestListWithSpecFilters(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db, 25)
	uow := NewUnitOfWork(db, nil)

	brand, typ := f.acme.ID, f.hats.ID
	page := listPage(t, uow, catalog.ProductSpecParams{PageSize: 50, BrandID: &brand, TypeID: &typ})
	// odd multiples of five
	require.Equal(t, []string{"Product 05", "Product 15", "Product 25"}, names(page.Data))
	require.EqualValues(t, 3, page.Count)

	page = listPage(t, uow, catalog.ProductSpecParams{PageSize: 50, Search: "PRODUCT 1"})
	require.EqualValues(t, 10, page.Count)
	require.Len(t, page.Data, 10)
}

func TestListWithSpecSearchEscapesWildcards(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db, 3)
	uow := NewUnitOfWork(db, nil)

	page := listPage(t, uow, catalog.ProductSpecParams{Search: "product_0"})
	require.EqualValues(t, 0, page.Count, "underscore must match literally")

	page = listPage(t, uow, catalog.ProductSpecParams{Search: "%"})
	require.EqualValues(t, 0, page.Count, "percent must match literally")
}

func TestListWithSpecOrdering(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db, 12)
	uow := NewUnitOfWork(db, nil)

	testCases := []struct {
		sort  string
		check func(a, b catalog.Product) bool
	}{
		{"nameAsc", func(a, b catalog.Product) bool { return a.Name <= b.Name }},
		{"nameDesc", func(a, b catalog.Product) bool { return a.Name >= b.Name }},
		{"priceAsc", func(a, b catalog.Product) bool { return a.Price <= b.Price }},
		{"priceDesc", func(a, b catalog.Product) bool { return a.Price >= b.Price }},
		{"idDesc", func(a, b catalog.Product) bool { return a.ID > b.ID }},
		{"brandAsc", func(a, b catalog.Product) bool { return a.BrandName() <= b.BrandName() }},
		{"brandDesc", func(a, b catalog.Product) bool { return a.BrandName() >= b.BrandName() }},
		{"typeDesc", func(a, b catalog.Product) bool { return a.TypeName() >= b.TypeName() }},
	}

	for _, tc := range testCases {
		t.Run(tc.sort, func(t *testing.T) {
			page := listPage(t, uow, catalog.ProductSpecParams{PageSize: 50, Sort: tc.sort})
			require.Len(t, page.Data, 12)
			for i := 1; i < len(page.Data); i++ {
				require.True(t, tc.check(page.Data[i-1], page.Data[i]), "%s out of order at %d", tc.sort, i)
			}
		})
	}
}

func TestListWithSpecIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db, 15)
	uow := NewUnitOfWork(db, nil)

	params := catalog.ProductSpecParams{PageIndex: 2, PageSize: 4, Sort: "brandAsc"}
	first := listPage(t, uow, params)
	second := listPage(t, uow, params)
	require.Equal(t, names(first.Data), names(second.Data))
}

func TestPagesPartitionTheResult(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db, 17)
	uow := NewUnitOfWork(db, nil)

	var all []string
	for idx := 1; idx <= 4; idx++ {
		page := listPage(t, uow, catalog.ProductSpecParams{PageIndex: idx, PageSize: 5, Sort: "brandDesc"})
		all = append(all, names(page.Data)...)
	}
	require.Len(t, all, 17)
	slices.Sort(all)
	require.Len(t, slices.Compact(all), 17, "a product appeared on two pages")
}

func TestCountMatchesUnpagedList(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db, 20)
	uow := NewUnitOfWork(db, nil)
	ctx := context.Background()

	brand := f.zeta.ID
	params := catalog.ProductSpecParams{PageSize: 3, BrandID: &brand, Search: "product"}
	require.NoError(t, params.Normalize())
	spec := catalog.NewProductsWithTypesAndBrandsSpec(params)

	all, err := uow.Products().ListWithSpec(ctx, spec.WithoutPaging())
	require.NoError(t, err)
	count, err := uow.Products().Count(ctx, shared.CountOf(spec))
	require.NoError(t, err)
	require.EqualValues(t, len(all), count)
	require.EqualValues(t, 10, count)
}

func TestGetEntityWithSpec(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db, 3)
	uow := NewUnitOfWork(db, nil)
	ctx := context.Background()

	missing, err := uow.Products().GetEntityWithSpec(ctx, catalog.NewProductWithTypesAndBrandsSpec(999))
	require.NoError(t, err)
	require.Nil(t, missing)

	found, err := uow.Products().GetEntityWithSpec(ctx, catalog.NewProductWithTypesAndBrandsSpec(2))
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, "Product 02", found.Name)
	require.Equal(t, "Zeta", found.BrandName())

	_, err = uow.Products().GetEntityWithSpec(ctx, shared.NewSpecification[catalog.Product]())
	require.ErrorIs(t, err, shared.ErrMultipleResults)
}

func TestGetByIDAndListAll(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db, 4)
	uow := NewUnitOfWork(db, nil)
	ctx := context.Background()

	p, err := uow.Products().GetByID(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "Product 03", p.Name)
	require.Nil(t, p.ProductBrand, "GetByID does not load relations")

	p, err = uow.Products().GetByID(ctx, 42)
	require.NoError(t, err)
	require.Nil(t, p)

	brands, err := uow.ProductBrands().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, brands, 2)

	sorted, err := uow.ProductBrands().ListWithSpec(ctx, catalog.NewBrandsSpec())
	require.NoError(t, err)
	require.Equal(t, "Acme", sorted[0].Name)
}

func TestInvalidPagingFailsFast(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWork(db, nil)

	spec := shared.NewSpecification[catalog.Product]().ApplyPaging(-5, 10)
	_, err := uow.Products().ListWithSpec(context.Background(), spec)
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}

type unknownCriterion struct{}

func (unknownCriterion) IsSatisfiedBy(ctx context.Context, p catalog.Product) bool { return true }

func TestUnsupportedCriterion(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWork(db, nil)

	spec := shared.NewSpecification[catalog.Product](unknownCriterion{})
	_, err := uow.Products().ListWithSpec(context.Background(), spec)
	require.ErrorIs(t, err, shared.ErrUnsupportedCriterion)
}

func TestCompositeCriteria(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db, 10)
	uow := NewUnitOfWork(db, nil)
	ctx := context.Background()

	// hats or Acme, but not product 01
	spec := shared.NewSpecification[catalog.Product](
		shared.Or(catalog.NewByTypeSpecification(f.hats.ID), catalog.NewByBrandSpecification(f.acme.ID)),
		shared.Not(catalog.NewByIDSpecification(1)),
	).OrderBy(catalog.SortByID)

	products, err := uow.Products().ListWithSpec(ctx, spec)
	require.NoError(t, err)
	require.Equal(t, []string{"Product 03", "Product 05", "Product 07", "Product 09", "Product 10"}, names(products))

	for _, p := range products {
		require.True(t, spec.Matches(ctx, p), "in-memory evaluation disagrees for %s", p.Name)
	}
}

func TestUserRolesCompositeKey(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	uow := NewUnitOfWork(db, nil)
	admin := identity.Role{ID: "r-admin", Name: identity.RoleAdmin}
	member := identity.Role{ID: "r-member", Name: identity.RoleMember}
	user := identity.AppUser{ID: "u-1", UserName: "bob@test.com", Email: "bob@test.com", DisplayName: "Bob"}
	uow.Roles().Add(&admin)
	uow.Roles().Add(&member)
	uow.Users().Add(&user)
	uow.UserRoles().Add(&identity.UserRole{UserID: user.ID, RoleID: member.ID})
	uow.UserRoles().Add(&identity.UserRole{UserID: user.ID, RoleID: admin.ID})
	n, err := uow.Complete(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 5, n)

	uow = NewUnitOfWork(db, nil)
	link, err := uow.UserRoles().GetByID(ctx, identity.UserRoleKey{UserID: "u-1", RoleID: "r-admin"})
	require.NoError(t, err)
	require.NotNil(t, link)

	loaded, err := uow.Users().GetEntityWithSpec(ctx, identity.NewUserByEmailSpec("BOB@test.com"))
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.ElementsMatch(t, []string{identity.RoleAdmin, identity.RoleMember}, loaded.RoleNames())

	uow.UserRoles().Delete(link)
	n, err = uow.Complete(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	links, err := uow.UserRoles().ListWithSpec(ctx, identity.NewUserRolesOfUserSpec("u-1"))
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, "r-member", links[0].RoleID)
}

func TestDuplicateKeyIsConflict(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	uow := NewUnitOfWork(db, nil)
	uow.Roles().Add(&identity.Role{ID: "r-1", Name: identity.RoleAdmin})
	_, err := uow.Complete(ctx)
	require.NoError(t, err)

	uow.Roles().Add(&identity.Role{ID: "r-2", Name: identity.RoleAdmin})
	_, err = uow.Complete(ctx)
	require.ErrorIs(t, err, shared.ErrConflict)
	require.True(t, errors.Is(err, shared.ErrConflict))
}

func TestOrderingTiesAndCase(t *testing.T) {
	db := newTestDB(t)
	f := seedCatalog(t, db, 0)
	ctx := context.Background()

	uow := NewUnitOfWork(db, nil)
	for _, p := range []catalog.Product{
		{ID: 30, Name: "cherry", Price: 5},
		{ID: 10, Name: "Banana", Price: 5},
		{ID: 20, Name: "apple", Price: 5},
	} {
		p.ProductBrandID, p.ProductTypeID = f.acme.ID, f.boots.ID
		uow.Products().Add(&p)
	}
	_, err := uow.Complete(ctx)
	require.NoError(t, err)

	uow = NewUnitOfWork(db, nil)
	require.Equal(t, []string{"apple", "Banana", "cherry"},
		names(listPage(t, uow, catalog.ProductSpecParams{Sort: "nameAsc"}).Data))
	require.Equal(t, []string{"cherry", "Banana", "apple"},
		names(listPage(t, uow, catalog.ProductSpecParams{Sort: "nameDesc"}).Data))
	require.Equal(t, []string{"Banana", "apple", "cherry"},
		names(listPage(t, uow, catalog.ProductSpecParams{Sort: "priceAsc"}).Data), "equal prices fall back to id order")
}
