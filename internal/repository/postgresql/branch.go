package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/dor-app/dor-backend-go/internal/domain/branch"
	"github.com/dor-app/dor-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type branchRepositoryImpl struct {
	db *database.DB
}

func NewBranchRepository(db *database.DB) branch.BranchRepository {
	return &branchRepositoryImpl{db: db}
}

// Create implements branch.BranchRepository.
func (r *branchRepositoryImpl) Create(ctx context.Context, b branch.Branch) (branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO branches (id, name, address, latitude, longitude, radius_meters, timezone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	b.ID = uuid.NewString()
	err := q.QueryRow(ctx, query, b.ID, b.Name, b.Address, b.Latitude, b.Longitude, b.RadiusMeters, b.Timezone).
		Scan(&b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return branch.Branch{}, branch.ErrBranchNameExists
		}
		return branch.Branch{}, fmt.Errorf("failed to create branch: %w", err)
	}

	return b, nil
}

// GetByID implements branch.BranchRepository.
func (r *branchRepositoryImpl) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, address, latitude, longitude, radius_meters, timezone, created_at, updated_at
		FROM branches
		WHERE id = $1
	`

	var b branch.Branch
	err := q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Name, &b.Address, &b.Latitude, &b.Longitude, &b.RadiusMeters, &b.Timezone,
		&b.CreatedAt, &b.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return branch.Branch{}, branch.ErrBranchNotFound
		}
		return branch.Branch{}, fmt.Errorf("failed to get branch: %w", err)
	}

	return b, nil
}

// List implements branch.BranchRepository.
func (r *branchRepositoryImpl) List(ctx context.Context) ([]branch.Branch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, address, latitude, longitude, radius_meters, timezone, created_at, updated_at
		FROM branches
		ORDER BY name ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	defer rows.Close()

	var branches []branch.Branch
	for rows.Next() {
		var b branch.Branch
		err := rows.Scan(
			&b.ID, &b.Name, &b.Address, &b.Latitude, &b.Longitude, &b.RadiusMeters, &b.Timezone,
			&b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan branch: %w", err)
		}
		branches = append(branches, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return branches, nil
}

// Update implements branch.BranchRepository.
func (r *branchRepositoryImpl) Update(ctx context.Context, req branch.UpdateBranchRequest) error {
	q := GetQuerier(ctx, r.db)

	// Build dynamic update query
	query := `UPDATE branches SET updated_at = NOW()`
	args := []interface{}{}
	argIdx := 1

	if req.Name != nil {
		query += fmt.Sprintf(", name = $%d", argIdx)
		args = append(args, *req.Name)
		argIdx++
	}
	if req.Address != nil {
		query += fmt.Sprintf(", address = $%d", argIdx)
		args = append(args, *req.Address)
		argIdx++
	}
	if req.Latitude != nil {
		query += fmt.Sprintf(", latitude = $%d", argIdx)
		args = append(args, *req.Latitude)
		argIdx++
	}
	if req.Longitude != nil {
		query += fmt.Sprintf(", longitude = $%d", argIdx)
		args = append(args, *req.Longitude)
		argIdx++
	}
	if req.RadiusMeters != nil {
		query += fmt.Sprintf(", radius_meters = $%d", argIdx)
		args = append(args, *req.RadiusMeters)
		argIdx++
	}
	if req.Timezone != nil {
		query += fmt.Sprintf(", timezone = $%d", argIdx)
		args = append(args, *req.Timezone)
		argIdx++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argIdx)
	args = append(args, req.ID)

	commandTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update branch: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return branch.ErrBranchNotFound
	}

	return nil
}

// Delete implements branch.BranchRepository.
func (r *branchRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM branches WHERE id = $1`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete branch: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return branch.ErrBranchNotFound
	}

	return nil
}
