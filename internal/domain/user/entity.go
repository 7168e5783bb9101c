package user

import "time"

type Role string

const (
	RoleStaff   Role = "staff"   // Checks in/out at an assigned branch
	RoleManager Role = "manager" // Views attendance history, manages branches
	RoleAdmin   Role = "admin"   // Full access, assigns branches and roles
)

type User struct {
	ID              string
	Email           string
	PasswordHash    *string
	Name            string
	BranchID        *string
	Role            Role
	OAuthProvider   *string
	OAuthProviderID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO / Join
	BranchName *string
}

// IsAdmin checks if user has full administrative access
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager checks if user is manager or admin
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// HasBranch checks if a branch has been assigned
func (u *User) HasBranch() bool {
	return u.BranchID != nil && *u.BranchID != ""
}
