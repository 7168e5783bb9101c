package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dor-app/dor-backend-go/internal/domain/auth"
	"github.com/dor-app/dor-backend-go/internal/domain/user"
	"github.com/dor-app/dor-backend-go/internal/pkg/database"
	"github.com/dor-app/dor-backend-go/internal/pkg/jwt"
	"github.com/dor-app/dor-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const oauthProviderGoogle = "google"

type AuthServiceImpl struct {
	db *database.DB
	user.UserRepository
	jwt.Service
	postgresql.JWTRepository
}

func NewAuthService(db *database.DB, userRepository user.UserRepository, jwtService jwt.Service, jwtRepository postgresql.JWTRepository) auth.AuthService {
	return &AuthServiceImpl{
		db:             db,
		UserRepository: userRepository,
		Service:        jwtService,
		JWTRepository:  jwtRepository,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// issueTokens generates an access/refresh pair for userData and persists the
// refresh token, inside the transaction bound to ctx when one is in flight.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, userData user.User, sessionReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse
	var err error

	tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}

	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(userData.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := a.CreateRefreshToken(ctx, userData.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, sessionReq); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}

	tokenResponse.User = user.ToResponse(userData)
	return tokenResponse, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	passwordHash, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var tokenResponse auth.TokenResponse
	err = postgresql.WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		txCtx := postgresql.ContextWithTx(ctx, tx)

		userData, err := a.UserRepository.Create(txCtx, user.User{
			Email:        req.Email,
			PasswordHash: &passwordHash,
			Name:         req.Name,
			BranchID:     req.BranchID,
			Role:         user.RoleStaff,
		})
		if err != nil {
			return err
		}

		tokenResponse, err = a.issueTokens(txCtx, userData, auth.SessionTrackingRequest{})
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, sessionReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	// OAuth-only accounts carry no password hash.
	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	var tokenResponse auth.TokenResponse
	err = postgresql.WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		txCtx := postgresql.ContextWithTx(ctx, tx)
		tokenResponse, err = a.issueTokens(txCtx, userData, sessionReq)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// LoginWithGoogle implements auth.AuthService. A first-time Google identity
// is provisioned as a staff account with no branch; an administrator assigns
// the branch afterwards.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, googleEmail, googleID, name string, sessionReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	userData, err := a.UserRepository.GetByEmail(ctx, googleEmail)
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	var tokenResponse auth.TokenResponse
	err = postgresql.WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		txCtx := postgresql.ContextWithTx(ctx, tx)

		if userData.ID == "" {
			provider := oauthProviderGoogle
			providerID := googleID
			userData, err = a.UserRepository.Create(txCtx, user.User{
				Email:           googleEmail,
				Name:            name,
				Role:            user.RoleStaff,
				OAuthProvider:   &provider,
				OAuthProviderID: &providerID,
			})
			if err != nil {
				return err
			}
		}

		tokenResponse, err = a.issueTokens(txCtx, userData, sessionReq)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// RefreshToken implements auth.AuthService. The presented token is rotated:
// it is revoked in the same transaction that records its replacement.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest, sessionReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	userID, err := a.Service.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidToken
	}

	revoked, err := a.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.TokenResponse{}, auth.ErrInvalidToken
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.TokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	var tokenResponse auth.TokenResponse
	err = postgresql.WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		txCtx := postgresql.ContextWithTx(ctx, tx)

		if err := a.RevokeRefreshToken(txCtx, req.RefreshToken); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}

		tokenResponse, err = a.issueTokens(txCtx, userData, sessionReq)
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if _, err := a.Service.ValidateRefreshToken(refreshToken); err != nil {
		return auth.ErrInvalidToken
	}

	if err := a.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
