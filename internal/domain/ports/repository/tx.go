package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager executes a function within a database transaction,
// passing the underlying transaction handle via `tx`.
//
// Use-case interfaces stay clean (no transaction types leaking out), and
// repository methods that accept a Tx handle detect its kind
// implementation-side.
// The concrete type of the handle is infra-defined (pgx.Tx for Postgres).
// Repositories MUST gracefully accept a nil handle (non-transactional path).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
