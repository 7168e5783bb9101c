package auth

import "context"

// AuthService is the identity collaborator: registration, credential and
// OAuth login, and refresh-token lifecycle.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (TokenResponse, error)

	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)

	// LoginWithGoogle logs an existing user in, or provisions a staff account
	// for a first-time Google identity.
	LoginWithGoogle(ctx context.Context, googleEmail, googleID, name string, session SessionTrackingRequest) (TokenResponse, error)

	RefreshToken(ctx context.Context, req RefreshTokenRequest, session SessionTrackingRequest) (TokenResponse, error)

	Logout(ctx context.Context, refreshToken string) error
}
