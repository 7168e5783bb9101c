package auth

import (
	"github.com/dor-app/dor-backend-go/internal/domain/user"
	"github.com/dor-app/dor-backend-go/internal/pkg/validator"
)

// RegisterRequest signs a staff member up, optionally under a branch picked
// at registration time.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     string  `json:"name"`
	BranchID *string `json:"branch_id,omitempty"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "a valid email address is required",
		})
	}

	if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SessionTrackingRequest carries client metadata stored with the refresh
// token for auditability.
type SessionTrackingRequest struct {
	IPAddress string
	UserAgent string
}

type TokenResponse struct {
	AccessToken           string            `json:"access_token"`
	AccessTokenExpiresIn  int64             `json:"access_token_expires_in"`
	RefreshToken          string            `json:"refresh_token"`
	RefreshTokenExpiresIn int64             `json:"refresh_token_expires_in"`
	User                  user.UserResponse `json:"user"`
}
