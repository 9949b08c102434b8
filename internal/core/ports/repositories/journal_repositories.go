package repositories

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves an entry and its lines.
	FindJournalByID(ctx context.Context, businessID, entryID string) (*domain.JournalEntry, error)

	// ListJournals pages through a business's entries newest first, lines included.
	ListJournals(ctx context.Context, businessID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)

	// FindReversalOf returns the entry reversing entryID, or apperrors.ErrNotFound.
	FindReversalOf(ctx context.Context, businessID, entryID string) (*domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournal persists an entry and its lines. Balance updates are the caller's job.
	// A second reversal of the same entry yields apperrors.ErrJournalAlreadyReversed.
	SaveJournal(ctx context.Context, entry domain.JournalEntry) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
