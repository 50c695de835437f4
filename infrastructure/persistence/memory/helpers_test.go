package memory

import (
	"context"
	"fmt"
	"testing"

	"storefront/domain/catalog"

	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	acme, zeta  catalog.ProductBrand
	boots, hats catalog.ProductType
}

// seedCatalog inserts two brands, two types and n products named "Product 01".."Product n".
// Product i costs (n-i+1)*10, belongs to Acme when i is odd and to Zeta otherwise,
// and is a hat when i is divisible by 5. Every product gets one main photo.
func seedCatalog(t *testing.T, store *Store, n int) catalogFixture {
	t.Helper()
	ctx := context.Background()

	f := catalogFixture{
		acme:  catalog.ProductBrand{Name: "Acme"},
		zeta:  catalog.ProductBrand{Name: "Zeta"},
		boots: catalog.ProductType{Name: "Boots"},
		hats:  catalog.ProductType{Name: "Hats"},
	}

	uow := NewUnitOfWork(store, nil)
	uow.ProductBrands().Add(&f.acme)
	uow.ProductBrands().Add(&f.zeta)
	uow.ProductTypes().Add(&f.boots)
	uow.ProductTypes().Add(&f.hats)
	rows, err := uow.Complete(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, rows)

	products := make([]catalog.Product, n)
	uow = NewUnitOfWork(store, nil)
	for i := range products {
		idx := i + 1
		brand, typ := f.zeta.ID, f.boots.ID
		if idx%2 == 1 {
			brand = f.acme.ID
		}
		if idx%5 == 0 {
			typ = f.hats.ID
		}
		products[i] = catalog.Product{
			Name:           fmt.Sprintf("Product %02d", idx),
			Price:          float64((n - idx + 1) * 10),
			ProductBrandID: brand,
			ProductTypeID:  typ,
		}
		uow.Products().Add(&products[i])
	}
	_, err = uow.Complete(ctx)
	require.NoError(t, err)

	uow = NewUnitOfWork(store, nil)
	for _, p := range products {
		uow.Photos().Add(&catalog.Photo{PictureURL: fmt.Sprintf("images/products/%d.png", p.ID), IsMain: true, ProductID: p.ID})
	}
	_, err = uow.Complete(ctx)
	require.NoError(t, err)
	return f
}

func listPage(t *testing.T, uow *UnitOfWork, params catalog.ProductSpecParams) ([]catalog.Product, int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, params.Normalize())

	count, err := uow.Products().Count(ctx, catalog.NewProductsWithFiltersForCountSpec(params))
	require.NoError(t, err)
	data, err := uow.Products().ListWithSpec(ctx, catalog.NewProductsWithTypesAndBrandsSpec(params))
	require.NoError(t, err)
	return data, count
}

func names(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}
