package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type rowScanner interface {
	Scan(dest ...any) error
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db querier
}

// UnitOfWork runs services' transactions on a pgx pool.
type UnitOfWork struct {
	Pool *pgxpool.Pool
}

// NewUnitOfWork creates a UnitOfWork over pool.
func NewUnitOfWork(pool *pgxpool.Pool) *UnitOfWork {
	return &UnitOfWork{Pool: pool}
}

var _ portsrepo.UnitOfWork = (*UnitOfWork)(nil)

// WithinTx begins a transaction, hands tx-bound repositories to fn and commits when fn succeeds.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	tx, err := u.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.WarnContext(ctx, "Failed to rollback transaction", slog.String("error", rbErr.Error()))
		}
	}()

	if err := fn(ctx, newRepositoryProvider(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err, "failed to commit transaction")
	}
	return nil
}

// Repositories returns repositories bound to the pool, outside any transaction.
func (u *UnitOfWork) Repositories() portsrepo.RepositoryProvider {
	return newRepositoryProvider(u.Pool)
}

// Constraint names the error mapping looks for.
const (
	constraintOneOpenDay  = "day_controls_one_open_idx"
	constraintOneReversal = "journal_entries_one_reversal_idx"
)

// mapPgError translates driver errors into the application's error taxonomy.
func mapPgError(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			switch pgErr.ConstraintName {
			case constraintOneOpenDay:
				return apperrors.ErrDayAlreadyOpen
			case constraintOneReversal:
				return apperrors.ErrJournalAlreadyReversed
			}
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, what)
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %s", apperrors.ErrConcurrencyConflict, what)
		case "23503", "23514": // foreign_key_violation, check_violation
			return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, what, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}

// sendBatch executes every queued statement and reports the first failure.
func sendBatch(ctx context.Context, db querier, batch *pgx.Batch, what string) error {
	if batch.Len() == 0 {
		return nil
	}
	br := db.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = mapPgError(err, what)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = mapPgError(err, what)
	}
	return batchErr
}
