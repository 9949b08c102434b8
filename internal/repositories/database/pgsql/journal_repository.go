package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

type PgxJournalRepository struct {
	BaseRepository
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalColumns = `entry_id, business_id, entry_date, description, reference_type, reference_id, amount, reversal_of_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanJournal(row rowScanner) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID, &e.BusinessID, &e.EntryDate, &e.Description, &e.ReferenceType, &e.ReferenceID, &e.Amount, &e.ReversalOfID,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	return e, err
}

// SaveJournal inserts the entry header and its lines in one batch.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, e domain.JournalEntry) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO journal_entries (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
		e.EntryID, e.BusinessID, e.EntryDate, e.Description, e.ReferenceType, e.ReferenceID, e.Amount, e.ReversalOfID,
		e.CreatedAt, e.CreatedBy, e.LastUpdatedAt, e.LastUpdatedBy,
	)
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, line_no, account_id, debit, credit, notes, running_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for i, l := range e.Lines {
		batch.Queue(lineQuery, l.LineID, e.EntryID, i, l.AccountID, l.Debit, l.Credit, l.Notes, l.RunningBalance)
	}
	return sendBatch(ctx, r.db, batch, "failed to insert journal "+e.EntryID)
}

// FindJournalByID retrieves an entry with its lines in posting order.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, businessID, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE business_id = $1 AND entry_id = $2;`
	e, err := scanJournal(r.db.QueryRow(ctx, query, businessID, entryID))
	if err != nil {
		return nil, mapPgError(err, "failed to find journal "+entryID)
	}
	if e.Lines, err = r.loadLines(ctx, entryID); err != nil {
		return nil, err
	}
	return &e, nil
}

// FindReversalOf returns the entry that reverses entryID.
func (r *PgxJournalRepository) FindReversalOf(ctx context.Context, businessID, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE business_id = $1 AND reversal_of_id = $2;`
	e, err := scanJournal(r.db.QueryRow(ctx, query, businessID, entryID))
	if err != nil {
		return nil, mapPgError(err, "failed to find reversal of "+entryID)
	}
	if e.Lines, err = r.loadLines(ctx, e.EntryID); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListJournals pages a business's entries newest first.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, businessID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	query := `SELECT ` + journalColumns + ` FROM journal_entries WHERE business_id = $1`
	args := []any{businessID}
	if nextToken != nil {
		cursorAt, cursorID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, cursorAt, cursorID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, entry_id DESC LIMIT %d;`, limit+1)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to query journals")
	}
	entries := make([]domain.JournalEntry, 0, limit)
	for rows.Next() {
		e, err := scanJournal(rows)
		if err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal rows: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		t := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		token = &t
	}
	// Lines load after the header cursor is closed; a transaction's connection runs one query at a time.
	for i := range entries {
		if entries[i].Lines, err = r.loadLines(ctx, entries[i].EntryID); err != nil {
			return nil, nil, err
		}
	}
	return entries, token, nil
}

func (r *PgxJournalRepository) loadLines(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	rows, err := r.db.Query(ctx, `
		SELECT line_id, entry_id, account_id, debit, credit, notes, running_balance
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_no;`, entryID)
	if err != nil {
		return nil, mapPgError(err, "failed to query journal lines")
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		var l domain.JournalLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.AccountID, &l.Debit, &l.Credit, &l.Notes, &l.RunningBalance); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal lines: %w", err)
	}
	return lines, nil
}
