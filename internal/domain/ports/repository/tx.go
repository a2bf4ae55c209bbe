package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle threaded through repository calls.
// Repositories must accept a nil Tx and fall back to the pool.
type Tx interface{}

// TransactionManager executes fn within a database transaction, passing the
// underlying handle as tx. The concrete type is infra-defined (pgx.Tx for
// Postgres). Kept small so use-case interfaces stay free of driver types.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
