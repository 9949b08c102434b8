package repositories

import (
	"context"
)

// TxFunc is the body of a unit of work. Every repository in repos is bound to the same transaction.
type TxFunc func(ctx context.Context, repos RepositoryProvider) error

// UnitOfWork runs multi-aggregate operations atomically.
type UnitOfWork interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn TxFunc) error

	// Repositories returns repositories for reads outside any transaction.
	Repositories() RepositoryProvider
}
