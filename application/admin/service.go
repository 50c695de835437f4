/*
Package admin 管理员用户管理：用户列表、角色分配、锁定与解锁。
*/
package admin

import (
	"context"
	"strings"
	"time"

	"storefront/domain"
	"storefront/domain/identity"
	"storefront/domain/shared"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

type Service struct {
	uows domain.UnitOfWorkFactory
	now  func() time.Time
}

func NewService(uows domain.UnitOfWorkFactory) *Service {
	return &Service{uows: uows, now: time.Now}
}

// ListUsers pages the users with their roles. The count covers all users.
func (s *Service) ListUsers(ctx context.Context, params identity.UserSpecParams) (shared.Pagination[UserWithRolesResponse], error) {
	if err := params.Normalize(); err != nil {
		return shared.Pagination[UserWithRolesResponse]{}, err
	}

	uow, err := s.uows.New(ctx)
	if err != nil {
		return shared.Pagination[UserWithRolesResponse]{}, err
	}
	defer uow.Release()

	total, err := uow.Users().Count(ctx, shared.NewCountSpecification[identity.AppUser]())
	if err != nil {
		return shared.Pagination[UserWithRolesResponse]{}, err
	}
	users, err := uow.Users().ListWithSpec(ctx, identity.NewUsersListSpec(params))
	if err != nil {
		return shared.Pagination[UserWithRolesResponse]{}, err
	}

	now := s.now()
	data := make([]UserWithRolesResponse, 0, len(users))
	for _, u := range users {
		data = append(data, UserWithRolesResponse{
			ID:            u.ID,
			UserName:      u.UserName,
			Email:         u.Email,
			DisplayName:   u.DisplayName,
			LockoutReason: u.LockoutReason,
			UnLockReason:  u.UnLockReason,
			IsLockedOut:   u.IsLockedOut(now),
			RolesNames:    strings.Join(u.RoleNames(), ", "),
		})
	}
	return shared.NewPagination(params.PageIndex, params.PageSize, total, data), nil
}

// GetUser returns the user together with every role, flagging the ones the user holds.
func (s *Service) GetUser(ctx context.Context, id string) (*UserToUpdate, error) {
	uow, err := s.uows.New(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Release()

	user, err := findUser(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	roles, err := uow.Roles().ListWithSpec(ctx, identity.NewRolesSpec())
	if err != nil {
		return nil, err
	}

	held := make(map[string]bool, len(user.Roles))
	for _, r := range user.Roles {
		held[r.ID] = true
	}
	list := make([]RoleSelection, 0, len(roles))
	for _, r := range roles {
		list = append(list, RoleSelection{ID: r.ID, Name: r.Name, SelectedRole: held[r.ID]})
	}
	return &UserToUpdate{ID: user.ID, DisplayName: user.DisplayName, PhoneNumber: user.PhoneNumber, RolesList: list}, nil
}

// UpdateUser replaces the profile fields and the role links in one commit.
func (s *Service) UpdateUser(ctx context.Context, id string, req UserToUpdate) error {
	uow, err := s.uows.New(ctx)
	if err != nil {
		return err
	}
	defer uow.Release()

	user, err := findUser(ctx, uow, id)
	if err != nil {
		return err
	}
	selected, err := selectedRoles(ctx, uow, req.RolesList)
	if err != nil {
		return err
	}

	links, err := uow.UserRoles().ListWithSpec(ctx, identity.NewUserRolesOfUserSpec(user.ID))
	if err != nil {
		return err
	}
	user.DisplayName = req.DisplayName
	user.PhoneNumber = req.PhoneNumber
	uow.Users().Update(user)
	for i := range links {
		uow.UserRoles().Delete(&links[i])
	}
	for _, r := range selected {
		uow.UserRoles().Add(&identity.UserRole{UserID: user.ID, RoleID: r.ID})
	}
	if err := domain.CompleteOrFail(ctx, uow, "user", "updating"); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("User updated", zap.String("user_id", user.ID), zap.Int("roles", len(selected)))
	return nil
}

// LockUser closes the account for identity.PermanentLockout.
func (s *Service) LockUser(ctx context.Context, id string, req LockRequest) error {
	return s.changeLockout(ctx, id, "locking", func(u *identity.AppUser) {
		u.Lock(s.now(), req.LockoutReason, req.AccessFailedCount)
	})
}

func (s *Service) UnlockUser(ctx context.Context, id string, req LockRequest) error {
	return s.changeLockout(ctx, id, "unlocking", func(u *identity.AppUser) {
		u.Unlock(req.UnLockReason, req.AccessFailedCount)
	})
}

func (s *Service) changeLockout(ctx context.Context, id, action string, change func(*identity.AppUser)) error {
	uow, err := s.uows.New(ctx)
	if err != nil {
		return err
	}
	defer uow.Release()

	user, err := findUser(ctx, uow, id)
	if err != nil {
		return err
	}
	change(user)
	uow.Users().Update(user)
	if err := domain.CompleteOrFail(ctx, uow, "user", action); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("User lockout changed", zap.String("user_id", user.ID), zap.String("action", action))
	return nil
}

func findUser(ctx context.Context, uow domain.UnitOfWork, id string) (*identity.AppUser, error) {
	if id == "" {
		return nil, shared.NewNotFoundError("user")
	}
	user, err := uow.Users().GetEntityWithSpec(ctx, identity.NewUserWithRolesSpec(id))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewNotFoundError("user")
	}
	return user, nil
}

// selectedRoles resolves the flagged entries by name against the stored roles.
func selectedRoles(ctx context.Context, uow domain.UnitOfWork, list []RoleSelection) ([]identity.Role, error) {
	var names []string
	for _, r := range list {
		if r.SelectedRole {
			names = append(names, r.Name)
		}
	}
	if len(names) == 0 {
		return nil, shared.NewValidationError("user", "rolesList", "Please select at least one role.")
	}

	roles, err := uow.Roles().ListWithSpec(ctx, identity.NewRolesSpec())
	if err != nil {
		return nil, err
	}
	byName := make(map[string]identity.Role, len(roles))
	for _, r := range roles {
		byName[r.Name] = r
	}

	out := make([]identity.Role, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		r, ok := byName[name]
		if !ok {
			return nil, shared.NewValidationError("user", "rolesList", "unknown role "+name)
		}
		if !seen[r.ID] {
			seen[r.ID] = true
			out = append(out, r)
		}
	}
	return out, nil
}
