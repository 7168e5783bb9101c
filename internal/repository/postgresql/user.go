package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dor-app/dor-backend-go/internal/domain/user"
	"github.com/dor-app/dor-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `
	u.id, u.email, u.password_hash, u.name, u.branch_id, u.role,
	u.oauth_provider, u.oauth_provider_id, u.created_at, u.updated_at, b.name
`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.BranchID, &u.Role,
		&u.OAuthProvider, &u.OAuthProviderID, &u.CreatedAt, &u.UpdatedAt, &u.BranchName,
	)
	return u, err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			id, email, password_hash, name, branch_id, role,
			oauth_provider, oauth_provider_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	newUser.ID = uuid.NewString()
	err := q.QueryRow(ctx, query,
		newUser.ID,
		newUser.Email,
		newUser.PasswordHash,
		newUser.Name,
		newUser.BranchID,
		newUser.Role,
		newUser.OAuthProvider,
		newUser.OAuthProviderID,
	).Scan(&newUser.CreatedAt, &newUser.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN branches b ON b.id = u.branch_id
		WHERE u.id = $1
	`

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN branches b ON b.id = u.branch_id
		WHERE u.email = $1
	`

	u, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return u, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + userColumns + `
		FROM users u
		LEFT JOIN branches b ON b.id = u.branch_id
		ORDER BY u.name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return users, nil
}

// AssignBranch implements user.UserRepository.
func (r *userRepositoryImpl) AssignBranch(ctx context.Context, userID string, branchID *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET branch_id = $2, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, userID, branchID)
	if err != nil {
		return fmt.Errorf("failed to assign branch: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// UpdateRole implements user.UserRepository.
func (r *userRepositoryImpl) UpdateRole(ctx context.Context, userID string, role user.Role) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET role = $2, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, userID, role)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}
