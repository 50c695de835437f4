package account

import (
	"context"
	"testing"
	"time"

	"storefront/domain/identity"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/memory"

	"github.com/stretchr/testify/require"
)

const testPassword = "Pa$$w0rd"

func newTestService(t *testing.T) (*Service, *memory.UnitOfWorkFactory) {
	t.Helper()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore(), nil)

	uow, err := factory.New(context.Background())
	require.NoError(t, err)
	uow.Roles().Add(&identity.Role{Name: identity.RoleMember})
	uow.Roles().Add(&identity.Role{Name: identity.RoleAdmin})
	_, err = uow.Complete(context.Background())
	require.NoError(t, err)

	return NewService(factory, NewTokenService("test-signing-key", "storefront-test", time.Hour)), factory
}

func register(t *testing.T, svc *Service, email string) *UserResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), RegisterRequest{DisplayName: "Bob", Email: email, Password: testPassword})
	require.NoError(t, err)
	return resp
}

func TestRegisterCreatesMember(t *testing.T) {
	svc, _ := newTestService(t)

	resp := register(t, svc, " Bob@Test.com ")
	require.Equal(t, "bob@test.com", resp.Email)
	require.Equal(t, "Bob", resp.DisplayName)

	claims, err := svc.tokens.Parse(resp.Token)
	require.NoError(t, err)
	require.Equal(t, "bob@test.com", claims.Email)
	require.True(t, claims.HasRole(identity.RoleMember))
	require.False(t, claims.HasRole(identity.RoleAdmin))

	exists, err := svc.EmailExists(context.Background(), "BOB@test.com")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestRegisterRejectsInput(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "bob@test.com")

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"duplicate email", RegisterRequest{DisplayName: "Other", Email: "BOB@test.com", Password: testPassword}},
		{"bad email", RegisterRequest{DisplayName: "Other", Email: "not-an-email", Password: testPassword}},
		{"weak password", RegisterRequest{DisplayName: "Other", Email: "other@test.com", Password: "password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			require.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "bob@test.com")
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Email: "bob@test.com", Password: testPassword})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	_, err = svc.Login(ctx, LoginRequest{Email: "bob@test.com", Password: "Wrong$1x"})
	require.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@test.com", Password: testPassword})
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestLoginRejectsLockedOutUser(t *testing.T) {
	svc, factory := newTestService(t)
	register(t, svc, "bob@test.com")
	ctx := context.Background()

	uow, err := factory.New(ctx)
	require.NoError(t, err)
	user, err := uow.Users().GetEntityWithSpec(ctx, identity.NewUserByEmailSpec("bob@test.com"))
	require.NoError(t, err)
	user.Lock(time.Now(), "spam", 0)
	uow.Users().Update(user)
	_, err = uow.Complete(ctx)
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "bob@test.com", Password: testPassword})
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestCurrentUser(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "bob@test.com")

	resp, err := svc.CurrentUser(context.Background(), "bob@test.com")
	require.NoError(t, err)
	require.Equal(t, "Bob", resp.DisplayName)

	_, err = svc.CurrentUser(context.Background(), "ghost@test.com")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAddressLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "bob@test.com")
	ctx := context.Background()

	_, err := svc.GetAddress(ctx, "bob@test.com")
	require.ErrorIs(t, err, shared.ErrNotFound)

	addr := AddressDTO{FirstName: "Bob", LastName: "Smith", Street: "1 Main St", City: "NY", State: "NY", ZipCode: "10001"}
	_, err = svc.UpdateAddress(ctx, "bob@test.com", addr)
	require.NoError(t, err)

	got, err := svc.GetAddress(ctx, "bob@test.com")
	require.NoError(t, err)
	require.Equal(t, addr, *got)

	addr.City = "Boston"
	_, err = svc.UpdateAddress(ctx, "bob@test.com", addr)
	require.NoError(t, err)

	got, err = svc.GetAddress(ctx, "bob@test.com")
	require.NoError(t, err)
	require.Equal(t, "Boston", got.City)

	_, err = svc.UpdateAddress(ctx, "ghost@test.com", addr)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
