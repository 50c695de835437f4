package admin

import (
	"context"
	"testing"
	"time"

	"storefront/domain/identity"
	"storefront/domain/shared"
	"storefront/infrastructure/persistence/memory"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    *Service
	admin  identity.Role
	member identity.Role
	users  []identity.AppUser
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	factory := memory.NewUnitOfWorkFactory(memory.NewStore(), nil)

	uow, err := factory.New(ctx)
	require.NoError(t, err)
	f := &fixture{
		svc:    NewService(factory),
		admin:  identity.Role{Name: identity.RoleAdmin},
		member: identity.Role{Name: identity.RoleMember},
	}
	uow.Roles().Add(&f.admin)
	uow.Roles().Add(&f.member)
	for _, name := range []string{"carol", "alice", "bob"} {
		f.users = append(f.users, identity.AppUser{
			DisplayName: name,
			UserName:    name + "@test.com",
			Email:       name + "@test.com",
		})
	}
	for i := range f.users {
		uow.Users().Add(&f.users[i])
	}
	_, err = uow.Complete(ctx)
	require.NoError(t, err)

	uow, err = factory.New(ctx)
	require.NoError(t, err)
	for _, u := range f.users {
		uow.UserRoles().Add(&identity.UserRole{UserID: u.ID, RoleID: f.member.ID})
	}
	uow.UserRoles().Add(&identity.UserRole{UserID: f.users[1].ID, RoleID: f.admin.ID})
	_, err = uow.Complete(ctx)
	require.NoError(t, err)
	return f
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)

	page, err := f.svc.ListUsers(context.Background(), identity.UserSpecParams{PageIndex: 1, PageSize: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, page.Count)
	require.Len(t, page.Data, 2)
	require.Equal(t, "alice", page.Data[0].DisplayName)
	require.Equal(t, "Member, Admin", page.Data[0].RolesNames)
	require.Equal(t, "bob", page.Data[1].DisplayName)
	require.False(t, page.Data[1].IsLockedOut)

	page, err = f.svc.ListUsers(context.Background(), identity.UserSpecParams{PageIndex: 1, Sort: "usernameDesc"})
	require.NoError(t, err)
	require.Equal(t, "carol@test.com", page.Data[0].UserName)

	_, err = f.svc.ListUsers(context.Background(), identity.UserSpecParams{PageIndex: -1})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestGetUserFlagsHeldRoles(t *testing.T) {
	f := newFixture(t)

	got, err := f.svc.GetUser(context.Background(), f.users[0].ID)
	require.NoError(t, err)
	require.Equal(t, "carol", got.DisplayName)
	require.Equal(t, []RoleSelection{
		{ID: f.admin.ID, Name: identity.RoleAdmin, SelectedRole: false},
		{ID: f.member.ID, Name: identity.RoleMember, SelectedRole: true},
	}, got.RolesList)

	for _, id := range []string{"", "missing"} {
		_, err = f.svc.GetUser(context.Background(), id)
		require.ErrorIs(t, err, shared.ErrNotFound)
	}
}

func TestUpdateUserReplacesRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.users[0].ID

	err := f.svc.UpdateUser(ctx, id, UserToUpdate{
		DisplayName: "Carol",
		PhoneNumber: "555",
		RolesList: []RoleSelection{
			{Name: identity.RoleAdmin, SelectedRole: true},
			{Name: identity.RoleMember, SelectedRole: false},
		},
	})
	require.NoError(t, err)

	got, err := f.svc.GetUser(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Carol", got.DisplayName)
	require.Equal(t, "555", got.PhoneNumber)
	require.True(t, got.RolesList[0].SelectedRole)
	require.False(t, got.RolesList[1].SelectedRole)
}

func TestUpdateUserKeepsUnchangedRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.users[2].ID

	err := f.svc.UpdateUser(ctx, id, UserToUpdate{
		DisplayName: "bob",
		RolesList:   []RoleSelection{{Name: identity.RoleMember, SelectedRole: true}},
	})
	require.NoError(t, err)

	got, err := f.svc.GetUser(ctx, id)
	require.NoError(t, err)
	require.True(t, got.RolesList[1].SelectedRole)
}

func TestUpdateUserRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.UpdateUser(ctx, f.users[0].ID, UserToUpdate{RolesList: []RoleSelection{{Name: identity.RoleAdmin}}})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
	require.Contains(t, err.Error(), "Please select at least one role.")

	err = f.svc.UpdateUser(ctx, f.users[0].ID, UserToUpdate{RolesList: []RoleSelection{{Name: "Root", SelectedRole: true}}})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	err = f.svc.UpdateUser(ctx, "missing", UserToUpdate{RolesList: []RoleSelection{{Name: identity.RoleAdmin, SelectedRole: true}}})
	require.ErrorIs(t, err, shared.ErrNotFound)

	// nothing changed
	got, err := f.svc.GetUser(ctx, f.users[0].ID)
	require.NoError(t, err)
	require.True(t, got.RolesList[1].SelectedRole)
}

func TestLockAndUnlock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }
	id := f.users[1].ID

	require.NoError(t, f.svc.LockUser(ctx, id, LockRequest{LockoutReason: "spam", AccessFailedCount: 3}))
	page, err := f.svc.ListUsers(ctx, identity.UserSpecParams{})
	require.NoError(t, err)
	require.True(t, page.Data[0].IsLockedOut)
	require.Equal(t, "spam", page.Data[0].LockoutReason)

	require.NoError(t, f.svc.UnlockUser(ctx, id, LockRequest{UnLockReason: "appeal"}))
	page, err = f.svc.ListUsers(ctx, identity.UserSpecParams{})
	require.NoError(t, err)
	require.False(t, page.Data[0].IsLockedOut)
	require.Equal(t, "appeal", page.Data[0].UnLockReason)

	require.ErrorIs(t, f.svc.LockUser(ctx, "", LockRequest{}), shared.ErrNotFound)
}
