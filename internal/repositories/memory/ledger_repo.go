package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type accountRepo struct{ v *view }

func (r *accountRepo) FindAccountByID(_ context.Context, businessID, accountID string) (*domain.Account, error) {
	st, done := r.v.acquire()
	defer done()
	a, ok := st.accounts[accountID]
	if !ok || a.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (r *accountRepo) FindAccountByName(_ context.Context, businessID, name string) (*domain.Account, error) {
	st, done := r.v.acquire()
	defer done()
	for _, a := range st.accounts {
		if a.BusinessID == businessID && a.Name == name {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *accountRepo) ListAccounts(_ context.Context, businessID string) ([]domain.Account, error) {
	st, done := r.v.acquire()
	defer done()
	out := make([]domain.Account, 0)
	for _, a := range st.accounts {
		if a.BusinessID == businessID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *accountRepo) SaveAccount(_ context.Context, account domain.Account) error {
	st, done := r.v.acquire()
	defer done()
	for _, a := range st.accounts {
		if a.BusinessID == account.BusinessID && a.Name == account.Name {
			return fmt.Errorf("account %q: %w", account.Name, apperrors.ErrDuplicate)
		}
	}
	st.accounts[account.AccountID] = account
	return nil
}

func (r *accountRepo) FindAccountsByIDsForUpdate(_ context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error) {
	st, done := r.v.acquire()
	defer done()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := st.accounts[id]; ok && a.BusinessID == businessID {
			out[id] = a
		}
	}
	return out, nil
}

func (r *accountRepo) UpdateAccountBalances(_ context.Context, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	st, done := r.v.acquire()
	defer done()
	for id, delta := range balanceChanges {
		a, ok := st.accounts[id]
		if !ok {
			return fmt.Errorf("account %s: %w", id, apperrors.ErrNotFound)
		}
		a.Balance = a.Balance.Add(delta)
		a.LastUpdatedAt, a.LastUpdatedBy = now, userID
		st.accounts[id] = a
	}
	return nil
}

type journalRepo struct{ v *view }

func (r *journalRepo) FindJournalByID(_ context.Context, businessID, entryID string) (*domain.JournalEntry, error) {
	st, done := r.v.acquire()
	defer done()
	e, ok := st.journals[entryID]
	if !ok || e.BusinessID != businessID {
		return nil, apperrors.ErrNotFound
	}
	e.Lines = slices.Clone(e.Lines)
	return &e, nil
}

func (r *journalRepo) SaveJournal(_ context.Context, entry domain.JournalEntry) error {
	st, done := r.v.acquire()
	defer done()
	if _, exists := st.journals[entry.EntryID]; exists {
		return fmt.Errorf("journal %s: %w", entry.EntryID, apperrors.ErrDuplicate)
	}
	if entry.ReversalOfID != nil {
		for _, e := range st.journals {
			if e.ReversalOfID != nil && *e.ReversalOfID == *entry.ReversalOfID {
				return fmt.Errorf("journal %s: %w", *entry.ReversalOfID, apperrors.ErrJournalAlreadyReversed)
			}
		}
	}
	entry.Lines = slices.Clone(entry.Lines)
	st.journals[entry.EntryID] = entry
	return nil
}

func (r *journalRepo) ListJournals(_ context.Context, businessID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var (
		cursorAt time.Time
		cursorID string
	)
	if nextToken != nil {
		var err error
		cursorAt, cursorID, err = pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}
	limit = pagination.NormalizeLimit(limit)

	st, done := r.v.acquire()
	defer done()

	matched := make([]domain.JournalEntry, 0)
	for _, e := range st.journals {
		if e.BusinessID != businessID {
			continue
		}
		if nextToken != nil && !pagination.Before(e.CreatedAt, e.EntryID, cursorAt, cursorID) {
			continue
		}
		e.Lines = slices.Clone(e.Lines)
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].EntryID > matched[j].EntryID
	})

	if len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
	return page, &token, nil
}

func (r *journalRepo) FindReversalOf(_ context.Context, businessID, entryID string) (*domain.JournalEntry, error) {
	st, done := r.v.acquire()
	defer done()
	for _, e := range st.journals {
		if e.BusinessID == businessID && e.ReversalOfID != nil && *e.ReversalOfID == entryID {
			e.Lines = slices.Clone(e.Lines)
			return &e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}
