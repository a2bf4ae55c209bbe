package db

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"commerce-role-sync/internal/domain/ports/repository"
)

// queryer is the common surface of *pgxpool.Pool and pgx.Tx that repositories
// use, so every method can accept an optional transaction handle.
type queryer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// pick returns the transaction handle when one was threaded through, the pool
// otherwise. Repositories must accept a nil Tx.
func pick(pool *pgxpool.Pool, tx repository.Tx) queryer {
	if t, ok := tx.(pgx.Tx); ok && t != nil {
		return t
	}
	return pool
}
