package seed

import (
	"context"
	"testing"

	"storefront/domain/catalog"
	"storefront/domain/identity"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/memory"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRunSeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore(), nil)
	s := New(factory, Admin{DisplayName: "Admin", Email: "Admin@Test.com", Password: "Pa$$w0rd"})

	require.NoError(t, s.Run(ctx))

	uow, err := factory.New(ctx)
	require.NoError(t, err)
	defer uow.Release()

	roles, err := uow.Roles().ListWithSpec(ctx, identity.NewRolesSpec())
	require.NoError(t, err)
	require.Len(t, roles, len(roleNames))

	admin, err := uow.Users().GetEntityWithSpec(ctx, identity.NewUserByEmailSpec("admin@test.com"))
	require.NoError(t, err)
	require.NotNil(t, admin)
	require.ElementsMatch(t, roleNames, admin.RoleNames())
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("Pa$$w0rd")))

	n, err := uow.Products().Count(ctx, shared.NewCountSpecification[catalog.Product]())
	require.NoError(t, err)
	require.EqualValues(t, len(products), n)

	product, err := uow.Products().GetEntityWithSpec(ctx, catalog.NewProductWithTypesAndBrandsSpec(1))
	require.NoError(t, err)
	require.Equal(t, products[0].name, product.Name)
	require.Equal(t, products[0].brand, product.BrandName())
	require.Len(t, product.Photos, 1)
	require.True(t, product.Photos[0].IsMain)
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore(), nil)
	s := New(factory, Admin{Email: "admin@test.com", Password: "Pa$$w0rd"})

	require.NoError(t, s.Run(ctx))
	require.NoError(t, s.Run(ctx))

	uow, err := factory.New(ctx)
	require.NoError(t, err)
	defer uow.Release()

	brands, err := uow.ProductBrands().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, brands, len(brandNames))
	photos, err := uow.Photos().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, photos, len(products))
	users, err := uow.Users().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestRunWithoutAdmin(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore(), nil)
	require.NoError(t, New(factory, Admin{}).Run(ctx))

	uow, err := factory.New(ctx)
	require.NoError(t, err)
	defer uow.Release()
	users, err := uow.Users().ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, users)
}
