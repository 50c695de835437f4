/*
Package account 账户应用服务：注册、登录、当前用户与收货地址。
*/
package account

import (
	"context"
	"fmt"
	"time"

	"storefront/domain"
	"storefront/domain/identity"
	"storefront/domain/shared"
	"storefront/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service Account application service
type Service struct {
	uows   domain.UnitOfWorkFactory
	tokens *TokenService
	now    func() time.Time
}

func NewService(uows domain.UnitOfWorkFactory, tokens *TokenService) *Service {
	return &Service{uows: uows, tokens: tokens, now: time.Now}
}

// Register creates a member account and signs the user in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	email := identity.NormalizeEmail(req.Email)
	if err := identity.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	uow, err := s.uows.New(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Release()

	existing, err := uow.Users().GetEntityWithSpec(ctx, identity.NewUserByEmailSpec(email))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewValidationError("user", "email", "Email address is in use")
	}

	member, err := uow.Roles().GetEntityWithSpec(ctx, identity.NewRoleByNameSpec(identity.RoleMember))
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("role %q is missing, seed the roles first", identity.RoleMember)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := identity.AppUser{
		ID:             uuid.NewString(),
		DisplayName:    req.DisplayName,
		UserName:       email,
		Email:          email,
		PasswordHash:   hash,
		LockoutEnabled: true,
		CreatedAt:      s.now(),
	}
	uow.Users().Add(&user)
	uow.UserRoles().Add(&identity.UserRole{UserID: user.ID, RoleID: member.ID})
	if err := domain.CompleteOrFail(ctx, uow, "user", "registering"); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("User registered", zap.String("user_id", user.ID))
	return s.userResponse(user, []string{identity.RoleMember})
}

// Login checks the credentials. Unknown users, wrong passwords and locked accounts all fail
// with the same unauthorized error.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*UserResponse, error) {
	uow, err := s.uows.New(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Release()

	user, err := uow.Users().GetEntityWithSpec(ctx, identity.NewUserByEmailSpec(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !checkPassword(user.PasswordHash, req.Password) {
		return nil, shared.NewUnauthorizedError("user", "invalid email or password")
	}
	if user.IsLockedOut(s.now()) {
		logger.FromContext(ctx).Warn("Locked out user tried to sign in", zap.String("user_id", user.ID))
		return nil, shared.NewUnauthorizedError("user", "invalid email or password")
	}
	return s.userResponse(*user, user.RoleNames())
}

// CurrentUser returns the signed in user with a fresh token.
func (s *Service) CurrentUser(ctx context.Context, email string) (*UserResponse, error) {
	uow, err := s.uows.New(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Release()

	user, err := uow.Users().GetEntityWithSpec(ctx, identity.NewUserByEmailSpec(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewNotFoundError("user")
	}
	return s.userResponse(*user, user.RoleNames())
}

func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	uow, err := s.uows.New(ctx)
	if err != nil {
		return false, err
	}
	defer uow.Release()

	user, err := uow.Users().GetEntityWithSpec(ctx, identity.NewUserByEmailSpec(email))
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

func (s *Service) GetAddress(ctx context.Context, email string) (*AddressDTO, error) {
	uow, err := s.uows.New(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Release()

	user, err := uow.Users().GetEntityWithSpec(ctx, identity.NewUserWithAddressSpec(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewNotFoundError("user")
	}
	if user.Address == nil {
		return nil, shared.NewNotFoundError("address")
	}
	dto := toAddressDTO(*user.Address)
	return &dto, nil
}

// UpdateAddress creates the address on first use and overwrites it afterwards.
func (s *Service) UpdateAddress(ctx context.Context, email string, req AddressDTO) (*AddressDTO, error) {
	uow, err := s.uows.New(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Release()

	user, err := uow.Users().GetEntityWithSpec(ctx, identity.NewUserWithAddressSpec(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.NewNotFoundError("user")
	}

	if user.Address == nil {
		address := identity.Address{AppUserID: user.ID}
		applyAddress(&address, req)
		uow.Addresses().Add(&address)
	} else {
		applyAddress(user.Address, req)
		uow.Addresses().Update(user.Address)
	}
	if err := domain.CompleteOrFail(ctx, uow, "user", "updating"); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Service) userResponse(user identity.AppUser, roles []string) (*UserResponse, error) {
	token, err := s.tokens.CreateToken(user, roles)
	if err != nil {
		return nil, err
	}
	return &UserResponse{Email: user.Email, DisplayName: user.DisplayName, Token: token}, nil
}

func toAddressDTO(a identity.Address) AddressDTO {
	return AddressDTO{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		ZipCode:   a.ZipCode,
	}
}

func applyAddress(a *identity.Address, dto AddressDTO) {
	a.FirstName = dto.FirstName
	a.LastName = dto.LastName
	a.Street = dto.Street
	a.City = dto.City
	a.State = dto.State
	a.ZipCode = dto.ZipCode
}
