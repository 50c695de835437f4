// Package identity 定义账户领域：用户、角色、用户角色关联与地址。
package identity

import (
	"net/mail"
	"strings"
	"time"

	"storefront/domain/shared"
)

const (
	KindUser     shared.EntityKind = "user"
	KindRole     shared.EntityKind = "role"
	KindUserRole shared.EntityKind = "user_role"
	KindAddress  shared.EntityKind = "address"
)

const (
	IncludeRoles   = "Roles"
	IncludeAddress = "Address"
)

const (
	RoleAdmin  = "Admin"
	RoleMember = "Member"
)

// PermanentLockout is how far in the future an administrator lock pushes LockoutEnd.
const PermanentLockout = 100 * 365 * 24 * time.Hour

type AppUser struct {
	ID                string     `gorm:"primaryKey;size:36"`
	DisplayName       string     `gorm:"size:100"`
	UserName          string     `gorm:"size:256;uniqueIndex"`
	Email             string     `gorm:"size:256;uniqueIndex"`
	PasswordHash      string     `gorm:"size:255" json:"-"`
	PhoneNumber       string     `gorm:"size:50"`
	LockoutEnd        *time.Time
	LockoutEnabled    bool
	AccessFailedCount int
	LockoutReason     string   `gorm:"size:255"`
	UnLockReason      string   `gorm:"size:255"`
	Address           *Address `gorm:"foreignKey:AppUserID;constraint:OnDelete:CASCADE"`
	Roles             []Role   `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	CreatedAt         time.Time
}

func (u AppUser) GetID() string { return u.ID }

// IsLockedOut reports whether the lockout window is still open at now.
func (u AppUser) IsLockedOut(now time.Time) bool {
	return u.LockoutEnd != nil && u.LockoutEnd.After(now)
}

// Lock closes the account for PermanentLockout.
func (u *AppUser) Lock(now time.Time, reason string, accessFailedCount int) {
	end := now.Add(PermanentLockout)
	u.LockoutEnd = &end
	u.LockoutEnabled = true
	u.LockoutReason = reason
	u.AccessFailedCount = accessFailedCount
}

func (u *AppUser) Unlock(reason string, accessFailedCount int) {
	u.LockoutEnd = nil
	u.UnLockReason = reason
	u.AccessFailedCount = accessFailedCount
}

// RoleNames returns the names of the loaded roles.
func (u AppUser) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// NormalizeEmail lower-cases and trims an email for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address syntax.
func ValidateEmail(email string) error {
	if email == "" {
		return shared.NewValidationError("user", "email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewValidationError("user", "email", "email is invalid")
	}
	return nil
}

type Role struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"size:256;uniqueIndex" json:"name"`
}

func (r Role) GetID() string { return r.ID }

// UserRoleKey is the composite key of UserRole.
type UserRoleKey struct {
	UserID string
	RoleID string
}

// UserRole links a user to a role. It is the join table of AppUser.Roles.
type UserRole struct {
	UserID string `gorm:"primaryKey;size:36"`
	RoleID string `gorm:"primaryKey;size:36"`
}

func (UserRole) TableName() string { return "user_roles" }

func (ur UserRole) GetID() UserRoleKey { return UserRoleKey{UserID: ur.UserID, RoleID: ur.RoleID} }

type Address struct {
	ID        int    `gorm:"primaryKey" json:"-"`
	FirstName string `gorm:"size:100" json:"firstName"`
	LastName  string `gorm:"size:100" json:"lastName"`
	Street    string `gorm:"size:200" json:"street"`
	City      string `gorm:"size:100" json:"city"`
	State     string `gorm:"size:100" json:"state"`
	ZipCode   string `gorm:"size:20" json:"zipCode"`
	AppUserID string `gorm:"size:36;uniqueIndex;not null" json:"-"`
}

func (a Address) GetID() int { return a.ID }
