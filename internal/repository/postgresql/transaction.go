package postgresql

import (
	"context"
	"fmt"

	"github.com/dor-app/dor-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type txCtxKey struct{}

// WithTransaction executes fn inside a database transaction. The transaction
// is rolled back when fn returns an error or panics, committed otherwise.
func WithTransaction(ctx context.Context, db *database.DB, fn func(tx pgx.Tx) error) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w: %w", database.ErrUnavailable, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ContextWithTx returns a context carrying the transaction so repository
// calls made through GetQuerier participate in it.
func ContextWithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txCtxKey{}, tx)
}

// GetQuerier returns the transaction bound to ctx, or the pool when no
// transaction is in flight.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txCtxKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}
