package admin

// UserWithRolesResponse is one row of the admin user list.
type UserWithRolesResponse struct {
	ID            string `json:"id"`
	UserName      string `json:"userName"`
	Email         string `json:"email"`
	DisplayName   string `json:"displayName"`
	LockoutReason string `json:"lockoutReason"`
	UnLockReason  string `json:"unLockReason"`
	IsLockedOut   bool   `json:"isLockedOut"`
	RolesNames    string `json:"rolesNames"`
}

// RoleSelection 角色列表项，SelectedRole 表示该用户是否拥有此角色
type RoleSelection struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	SelectedRole bool   `json:"selectedRole"`
}

// UserToUpdate 读取与编辑单个用户
type UserToUpdate struct {
	ID          string          `json:"id"`
	DisplayName string          `json:"displayName"`
	PhoneNumber string          `json:"phoneNumber"`
	RolesList   []RoleSelection `json:"rolesList"`
}

type LockRequest struct {
	AccessFailedCount int    `json:"accessFailedCount" binding:"min=0"`
	LockoutReason     string `json:"lockoutReason"`
	UnLockReason      string `json:"unLockReason"`
}
