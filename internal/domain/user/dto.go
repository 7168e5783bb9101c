package user

import (
	"github.com/dor-app/dor-backend-go/internal/pkg/validator"
)

// UserResponse represents the outward-facing user profile.
type UserResponse struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	BranchID   *string `json:"branch_id,omitempty"`
	BranchName *string `json:"branch_name,omitempty"`
	Role       Role    `json:"role"`
}

// AssignBranchRequest assigns (or clears) a user's branch.
type AssignBranchRequest struct {
	UserID   string  `json:"-"` // From URL
	BranchID *string `json:"branch_id"`
}

func (r *AssignBranchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if r.BranchID != nil && validator.IsEmpty(*r.BranchID) {
		errs = append(errs, validator.ValidationError{
			Field:   "branch_id",
			Message: "branch_id must not be empty, omit it to clear the assignment",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ChangeRoleRequest changes a user's role.
type ChangeRoleRequest struct {
	UserID string `json:"-"` // From URL
	Role   Role   `json:"role"`
}

func (r *ChangeRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	switch r.Role {
	case RoleStaff, RoleManager, RoleAdmin:
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of staff, manager, admin",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		BranchID:   u.BranchID,
		BranchName: u.BranchName,
		Role:       u.Role,
	}
}
