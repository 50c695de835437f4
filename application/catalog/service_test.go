package catalog

import (
	"context"
	"testing"

	"storefront/domain/catalog"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/memory"
	"storefront/infrastructure/persistence/seed"

	"github.com/stretchr/testify/require"
)

const apiURL = "https://shop.test/"

func newSeededService(t *testing.T) *Service {
	t.Helper()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore(), nil)
	require.NoError(t, seed.New(factory, seed.Admin{}).Run(context.Background()))
	return NewService(factory, apiURL)
}

func TestGetProducts(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	page, err := svc.GetProducts(ctx, catalog.ProductSpecParams{PageIndex: 2, PageSize: 5, Sort: "priceAsc"})
	require.NoError(t, err)
	require.Equal(t, 2, page.PageIndex)
	require.Equal(t, 5, page.PageSize)
	require.EqualValues(t, 18, page.Count)
	require.Len(t, page.Data, 5)
	for i := 1; i < len(page.Data); i++ {
		require.LessOrEqual(t, page.Data[i-1].Price, page.Data[i].Price)
	}

	first := page.Data[0]
	require.NotEmpty(t, first.ProductBrand)
	require.NotEmpty(t, first.ProductType)
	require.Contains(t, first.PictureURL, apiURL+"images/products/")
}

func TestGetProductsFilters(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	page, err := svc.GetProducts(ctx, catalog.ProductSpecParams{Search: "BOOTS", PageSize: 50})
	require.NoError(t, err)
	require.EqualValues(t, 5, page.Count)
	for _, p := range page.Data {
		require.Equal(t, "Boots", p.ProductType)
	}

	page, err = svc.GetProducts(ctx, catalog.ProductSpecParams{Search: "shoe"})
	require.NoError(t, err)
	require.Zero(t, page.Count)
	require.NotNil(t, page.Data)
	require.Empty(t, page.Data)

	_, err = svc.GetProducts(ctx, catalog.ProductSpecParams{PageIndex: -2})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestGetBrandsAndTypesOrderedByName(t *testing.T) {
	svc := newSeededService(t)

	brands, err := svc.GetBrands(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Angular", brands[0].Name)
	require.Equal(t, "VS Code", brands[len(brands)-1].Name)

	types, err := svc.GetTypes(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Boards", "Boots", "Gloves", "Hats"},
		[]string{types[0].Name, types[1].Name, types[2].Name, types[3].Name})
}

func TestProductLifecycle(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, ProductRequest{Name: "Redis Gloves", Price: 12.5, ProductBrandID: 6, ProductTypeID: 4})
	require.NoError(t, err)
	require.Equal(t, 19, created.ID)
	require.Equal(t, "Redis", created.ProductBrand)
	require.Equal(t, "Gloves", created.ProductType)
	require.Empty(t, created.PictureURL)

	updated, err := svc.UpdateProduct(ctx, created.ID, ProductRequest{Name: "Redis Mittens", Price: 14, ProductBrandID: 6, ProductTypeID: 4})
	require.NoError(t, err)
	require.Equal(t, "Redis Mittens", updated.Name)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))
	_, err = svc.GetProduct(ctx, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductWriteErrors(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, ProductRequest{Name: "Ghost", Price: 1, ProductBrandID: 99, ProductTypeID: 1})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.UpdateProduct(ctx, 404, ProductRequest{Name: "Ghost", Price: 1, ProductBrandID: 1, ProductTypeID: 1})
	require.ErrorIs(t, err, shared.ErrNotFound)

	require.ErrorIs(t, svc.DeleteProduct(ctx, 404), shared.ErrNotFound)
}

func TestDeleteProductRemovesPhotos(t *testing.T) {
	factory := memory.NewUnitOfWorkFactory(memory.NewStore(), nil)
	ctx := context.Background()
	require.NoError(t, seed.New(factory, seed.Admin{}).Run(ctx))
	svc := NewService(factory, apiURL)

	require.NoError(t, svc.DeleteProduct(ctx, 1))

	uow, err := factory.New(ctx)
	require.NoError(t, err)
	defer uow.Release()
	photos, err := uow.Photos().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, photos, 17)
}
