package identity

import (
	"context"
	"fmt"

	"storefront/domain/shared"
)

type ByEmailSpecification struct {
	Email string
}

func (spec ByEmailSpecification) IsSatisfiedBy(ctx context.Context, u AppUser) bool {
	return NormalizeEmail(u.Email) == spec.Email
}

type ByUserIDSpecification struct {
	ID string
}

func (spec ByUserIDSpecification) IsSatisfiedBy(ctx context.Context, u AppUser) bool {
	return u.ID == spec.ID
}

type RoleByNameSpecification struct {
	Name string
}

func (spec RoleByNameSpecification) IsSatisfiedBy(ctx context.Context, r Role) bool {
	return r.Name == spec.Name
}

// UserRolesOfUserSpecification matches the role links of one user.
type UserRolesOfUserSpecification struct {
	UserID string
}

func (spec UserRolesOfUserSpecification) IsSatisfiedBy(ctx context.Context, ur UserRole) bool {
	return ur.UserID == spec.UserID
}

type AddressOfUserSpecification struct {
	UserID string
}

func (spec AddressOfUserSpecification) IsSatisfiedBy(ctx context.Context, a Address) bool {
	return a.AppUserID == spec.UserID
}

var (
	SortByUserName = shared.SortKey[AppUser]{Field: "user_name", FoldCase: true, Compare: func(a, b AppUser) int {
		return shared.CompareFold(a.UserName, b.UserName)
	}}
	SortByDisplayName = shared.SortKey[AppUser]{Field: "display_name", FoldCase: true, Compare: func(a, b AppUser) int {
		return shared.CompareFold(a.DisplayName, b.DisplayName)
	}}
	SortRolesByName = shared.SortKey[Role]{Field: "name", FoldCase: true, Compare: func(a, b Role) int {
		return shared.CompareFold(a.Name, b.Name)
	}}
)

const (
	MaxPageSize     = 50
	DefaultPageSize = 6
)

// UserSpecParams is the query of the admin user list.
type UserSpecParams struct {
	PageIndex int    `form:"pageIndex" json:"pageIndex"`
	PageSize  int    `form:"pageSize" json:"pageSize"`
	Sort      string `form:"sort" json:"sort"`
}

func (p *UserSpecParams) Normalize() error {
	if p.PageIndex == 0 {
		p.PageIndex = 1
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageIndex < 1 {
		return shared.NewValidationError("user", "pageIndex", fmt.Sprintf("pageIndex must be >= 1, got %d", p.PageIndex))
	}
	if p.PageSize < 1 {
		return shared.NewValidationError("user", "pageSize", fmt.Sprintf("pageSize must be >= 1, got %d", p.PageSize))
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return nil
}

// NewUsersListSpec pages users with their roles. Sort is usernameAsc, usernameDesc, or display
// name ascending for anything else.
func NewUsersListSpec(params UserSpecParams) *shared.Specification[AppUser] {
	spec := shared.NewSpecification[AppUser]().Include(IncludeRoles)
	switch params.Sort {
	case "usernameAsc":
		spec.OrderBy(SortByUserName)
	case "usernameDesc":
		spec.OrderByDescending(SortByUserName)
	default:
		spec.OrderBy(SortByDisplayName)
	}
	return spec.ApplyPaging(shared.PageOffset(params.PageIndex, params.PageSize), params.PageSize)
}

func NewUserByEmailSpec(email string) *shared.Specification[AppUser] {
	return shared.NewSpecification[AppUser](ByEmailSpecification{Email: NormalizeEmail(email)}).
		Include(IncludeRoles)
}

func NewUserWithRolesSpec(id string) *shared.Specification[AppUser] {
	return shared.NewSpecification[AppUser](ByUserIDSpecification{ID: id}).Include(IncludeRoles)
}

func NewUserWithAddressSpec(email string) *shared.Specification[AppUser] {
	return shared.NewSpecification[AppUser](ByEmailSpecification{Email: NormalizeEmail(email)}).
		Include(IncludeAddress)
}

func NewUserRolesOfUserSpec(userID string) *shared.Specification[UserRole] {
	return shared.NewSpecification[UserRole](UserRolesOfUserSpecification{UserID: userID})
}

func NewRoleByNameSpec(name string) *shared.Specification[Role] {
	return shared.NewSpecification[Role](RoleByNameSpecification{Name: name})
}

func NewRolesSpec() *shared.Specification[Role] {
	return shared.NewSpecification[Role]().OrderBy(SortRolesByName)
}

func NewAddressOfUserSpec(userID string) *shared.Specification[Address] {
	return shared.NewSpecification[Address](AddressOfUserSpecification{UserID: userID})
}
