package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// LedgerSvcFacade is the double-entry ledger.
type LedgerSvcFacade interface {
	// PostJournal validates and writes a balanced entry, updating account balances.
	PostJournal(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error)

	// ProvisionDefaultAccounts creates any missing chart-of-accounts entries. It is idempotent.
	ProvisionDefaultAccounts(ctx context.Context, businessID, userID string) (*dto.ProvisionAccountsResponse, error)

	// GetJournalEntry retrieves an entry with its lines.
	GetJournalEntry(ctx context.Context, businessID, entryID string) (*domain.JournalEntry, error)

	// ListJournals pages through a business's entries, newest first.
	ListJournals(ctx context.Context, businessID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)

	// ReverseJournalEntry posts the mirror image of an entry. An entry is reversed at most once
	// and a reversing entry cannot itself be reversed.
	ReverseJournalEntry(ctx context.Context, businessID, entryID, userID string) (*domain.JournalEntry, error)

	CreateAccount(ctx context.Context, businessID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
	GetAccount(ctx context.Context, businessID, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, businessID string) (*dto.ListAccountsResponse, error)
}
