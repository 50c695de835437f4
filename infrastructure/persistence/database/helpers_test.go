package database

import (
	"context"
	"fmt"
	"testing"

	"storefront/domain/catalog"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), GormConfig("silent", 0))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a new database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

type catalogFixture struct {
	acme, zeta   catalog.ProductBrand
	boots, hats  catalog.ProductType
	productCount int
}

// seedCatalog inserts two brands, two types and n products named "Product 01".."Product n".
// Product i costs (n-i+1)*10, belongs to Acme when i is odd and to Zeta otherwise,
// and is a hat when i is divisible by 5.
func seedCatalog(t *testing.T, db *gorm.DB, n int) catalogFixture {
	t.Helper()
	ctx := context.Background()

	f := catalogFixture{
		acme:         catalog.ProductBrand{Name: "Acme"},
		zeta:         catalog.ProductBrand{Name: "Zeta"},
		boots:        catalog.ProductType{Name: "Boots"},
		hats:         catalog.ProductType{Name: "Hats"},
		productCount: n,
	}

	uow := NewUnitOfWork(db, nil)
	uow.ProductBrands().Add(&f.acme)
	uow.ProductBrands().Add(&f.zeta)
	uow.ProductTypes().Add(&f.boots)
	uow.ProductTypes().Add(&f.hats)
	rows, err := uow.Complete(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, rows)

	products := make([]catalog.Product, n)
	uow = NewUnitOfWork(db, nil)
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
			Description:    "test product",
			Price:          float64((n - idx + 1) * 10),
			ProductBrandID: brand,
			ProductTypeID:  typ,
		}
		uow.Products().Add(&products[i])
	}
	_, err = uow.Complete(ctx)
	require.NoError(t, err)

	uow = NewUnitOfWork(db, nil)
	for _, p := range products {
		uow.Photos().Add(&catalog.Photo{PictureURL: fmt.Sprintf("images/products/%d.png", p.ID), IsMain: true, ProductID: p.ID})
	}
	_, err = uow.Complete(ctx)
	require.NoError(t, err)
	return f
}
