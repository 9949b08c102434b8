package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
)

type PgxSystemRepository struct {
	BaseRepository
}

var _ portsrepo.SystemRepositoryFacade = (*PgxSystemRepository)(nil)

func (r *PgxSystemRepository) SaveKey(ctx context.Context, k domain.OperationKey) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO operation_keys (key_id, business_id, code, operation, assignee_id, issued_by, issued_at, used)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE);`,
		k.KeyID, k.BusinessID, k.Code, k.Operation, k.AssigneeID, k.IssuedBy, k.IssuedAt)
	if err != nil {
		return mapPgError(err, "failed to save key")
	}
	return nil
}

func (r *PgxSystemRepository) FindKeysByCodesForUpdate(ctx context.Context, businessID string, codes []string) ([]domain.OperationKey, error) {
	rows, err := r.db.Query(ctx, `
		SELECT key_id, business_id, code, operation, assignee_id, issued_by, issued_at, used, used_by, used_at
		FROM operation_keys
		WHERE business_id = $1 AND code = ANY($2)
		ORDER BY key_id
		FOR UPDATE;`, businessID, codes)
	if err != nil {
		return nil, mapPgError(err, "failed to lock keys")
	}
	defer rows.Close()

	var out []domain.OperationKey
	for rows.Next() {
		var k domain.OperationKey
		if err := rows.Scan(&k.KeyID, &k.BusinessID, &k.Code, &k.Operation, &k.AssigneeID, &k.IssuedBy, &k.IssuedAt,
			&k.Used, &k.UsedBy, &k.UsedAt); err != nil {
			return nil, fmt.Errorf("failed to scan key row: %w", err)
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (r *PgxSystemRepository) MarkKeysUsed(ctx context.Context, keyIDs []string, userID string, now time.Time) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE operation_keys SET used = TRUE, used_by = $2, used_at = $3
		WHERE key_id = ANY($1) AND used = FALSE;`, keyIDs, userID, now)
	if err != nil {
		return mapPgError(err, "failed to mark keys used")
	}
	if ct.RowsAffected() != int64(len(keyIDs)) {
		return fmt.Errorf("%w: %d of %d keys could be consumed", apperrors.ErrInvalidKey, ct.RowsAffected(), len(keyIDs))
	}
	return nil
}

const dayColumns = `day_id, business_id, status, opened_by, opened_at, closed_by, closed_at`

func (r *PgxSystemRepository) FindOpenDay(ctx context.Context, businessID string) (*domain.DayControl, error) {
	var d domain.DayControl
	err := r.db.QueryRow(ctx, `SELECT `+dayColumns+` FROM day_controls WHERE business_id = $1 AND status = 'OPEN';`, businessID).Scan(
		&d.DayID, &d.BusinessID, &d.Status, &d.OpenedBy, &d.OpenedAt, &d.ClosedBy, &d.ClosedAt)
	if err != nil {
		return nil, mapPgError(err, "failed to find open day")
	}
	return &d, nil
}

func (r *PgxSystemRepository) SaveDay(ctx context.Context, d domain.DayControl) error {
	_, err := r.db.Exec(ctx, `INSERT INTO day_controls (`+dayColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		d.DayID, d.BusinessID, d.Status, d.OpenedBy, d.OpenedAt, d.ClosedBy, d.ClosedAt)
	if err != nil {
		return mapPgError(err, "failed to save day")
	}
	return nil
}

func (r *PgxSystemRepository) CloseDay(ctx context.Context, dayID, userID string, now time.Time) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE day_controls SET status = 'CLOSED', closed_by = $2, closed_at = $3
		WHERE day_id = $1 AND status = 'OPEN';`, dayID, userID, now)
	if err != nil {
		return mapPgError(err, "failed to close day")
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrDayNotOpen
	}
	return nil
}
