package user

import "context"

// UserRepository defines data access methods for users.
type UserRepository interface {
	Create(ctx context.Context, u User) (User, error)

	// GetByID retrieves the user profile, including the assigned branch name.
	GetByID(ctx context.Context, id string) (User, error)

	GetByEmail(ctx context.Context, email string) (User, error)

	List(ctx context.Context) ([]User, error)

	// AssignBranch sets or clears (nil) the user's branch reference.
	AssignBranch(ctx context.Context, userID string, branchID *string) error

	UpdateRole(ctx context.Context, userID string, role Role) error
}

// UserService defines business logic for user administration.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (UserResponse, error)

	List(ctx context.Context) ([]UserResponse, error)

	AssignBranch(ctx context.Context, req AssignBranchRequest) (UserResponse, error)

	ChangeRole(ctx context.Context, req ChangeRoleRequest) (UserResponse, error)
}
