package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService provides double-entry posting.
type ledgerService struct {
	BaseService
	uow portsrepo.UnitOfWork
}

func newLedgerService(uow portsrepo.UnitOfWork, base BaseService) *ledgerService {
	return &ledgerService{BaseService: base, uow: uow}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// journalHeader is the non-line part of an entry derived from a domain event.
type journalHeader struct {
	BusinessID    string
	Description   string
	ReferenceType domain.ReferenceType
	ReferenceID   string
	UserID        string
	Now           time.Time
}

// PostJournal implements portssvc.LedgerSvcFacade.
func (s *ledgerService) PostJournal(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	var posted *domain.JournalEntry
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.BusinessRepo.FindBusinessByID(ctx, entry.BusinessID); err != nil {
			return fmt.Errorf("business %s: %w", entry.BusinessID, err)
		}
		var err error
		posted, err = s.postJournal(ctx, repos, entry)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to post journal", slog.String("business_id", entry.BusinessID))
		return nil, err
	}
	return posted, nil
}

// postJournal validates an entry, locks its accounts, writes it and updates balances in the caller's transaction.
func (s *ledgerService) postJournal(ctx context.Context, repos portsrepo.RepositoryProvider, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	if err := accounting.ValidateJournalLines(entry.Lines); err != nil {
		return nil, err
	}

	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	if entry.EntryDate.IsZero() {
		entry.EntryDate = time.Now().UTC()
	}
	if entry.CreatedAt.IsZero() {
		entry.AuditFields = domain.NewAuditFields(entry.CreatedBy, entry.EntryDate)
	}

	accountIDs := make([]string, 0, len(entry.Lines))
	seen := make(map[string]bool, len(entry.Lines))
	for _, l := range entry.Lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			accountIDs = append(accountIDs, l.AccountID)
		}
	}

	accounts, err := repos.AccountRepo.FindAccountsByIDsForUpdate(ctx, entry.BusinessID, accountIDs)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]decimal.Decimal, len(accounts))
	changes := make(map[string]decimal.Decimal, len(accounts))
	lines := make([]domain.JournalLine, len(entry.Lines))
	for i, l := range entry.Lines {
		acc, ok := accounts[l.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrAccountMissing, l.AccountID)
		}
		signed, err := accounting.CalculateSignedAmount(l, acc.AccountType)
		if err != nil {
			return nil, err
		}
		if _, ok := balances[l.AccountID]; !ok {
			balances[l.AccountID] = acc.Balance
		}
		balances[l.AccountID] = balances[l.AccountID].Add(signed)
		changes[l.AccountID] = changes[l.AccountID].Add(signed)

		l.EntryID = entry.EntryID
		if l.LineID == "" {
			l.LineID = uuid.NewString()
		}
		l.RunningBalance = balances[l.AccountID]
		lines[i] = l
	}
	entry.Lines = lines
	entry.Amount = entry.TotalDebit()

	if err := repos.JournalRepo.SaveJournal(ctx, entry); err != nil {
		return nil, err
	}
	if err := repos.AccountRepo.UpdateAccountBalances(ctx, changes, entry.CreatedBy, entry.EntryDate); err != nil {
		return nil, err
	}
	return &entry, nil
}

// postPostings resolves role-addressed postings to the business's accounts and posts them.
func (s *ledgerService) postPostings(ctx context.Context, repos portsrepo.RepositoryProvider, h journalHeader, postings []accounting.Posting) (*domain.JournalEntry, error) {
	byRole := make(map[domain.AccountRole]string)
	lines := make([]domain.JournalLine, 0, len(postings))
	for _, p := range postings {
		accountID, ok := byRole[p.Role]
		if !ok {
			id, err := s.accountForRole(ctx, repos, h.BusinessID, p.Role)
			if err != nil {
				return nil, err
			}
			byRole[p.Role] = id
			accountID = id
		}
		lines = append(lines, domain.JournalLine{
			AccountID: accountID,
			Debit:     p.Debit,
			Credit:    p.Credit,
			Notes:     p.Notes,
		})
	}

	return s.postJournal(ctx, repos, domain.JournalEntry{
		BusinessID:    h.BusinessID,
		EntryDate:     h.Now,
		Description:   h.Description,
		ReferenceType: h.ReferenceType,
		ReferenceID:   h.ReferenceID,
		Lines:         lines,
		AuditFields:   domain.NewAuditFields(h.UserID, h.Now),
	})
}

func (s *ledgerService) accountForRole(ctx context.Context, repos portsrepo.RepositoryProvider, businessID string, role domain.AccountRole) (string, error) {
	name, err := domain.AccountName(role)
	if err != nil {
		return "", err
	}
	acc, err := repos.AccountRepo.FindAccountByName(ctx, businessID, name)
	if err != nil {
		return "", notFoundAs(err, apperrors.ErrAccountMissing, "%s", name)
	}
	return acc.AccountID, nil
}

// ProvisionDefaultAccounts implements portssvc.LedgerSvcFacade.
func (s *ledgerService) ProvisionDefaultAccounts(ctx context.Context, businessID, userID string) (*dto.ProvisionAccountsResponse, error) {
	resp := &dto.ProvisionAccountsResponse{}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.BusinessRepo.FindBusinessByID(ctx, businessID); err != nil {
			return fmt.Errorf("business %s: %w", businessID, err)
		}
		now := time.Now().UTC()
		for _, t := range domain.DefaultChartOfAccounts {
			_, err := repos.AccountRepo.FindAccountByName(ctx, businessID, t.Name)
			if err == nil {
				continue
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			acc := domain.Account{
				AccountID:   uuid.NewString(),
				BusinessID:  businessID,
				Name:        t.Name,
				AccountType: t.Type,
				Description: "System account",
				IsActive:    true,
				Balance:     decimal.Zero,
				AuditFields: domain.NewAuditFields(userID, now),
			}
			if err := repos.AccountRepo.SaveAccount(ctx, acc); err != nil {
				return err
			}
			resp.Created++
		}
		accounts, err := repos.AccountRepo.ListAccounts(ctx, businessID)
		if err != nil {
			return err
		}
		resp.Accounts = accounts
		return nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to provision accounts")
		return nil, err
	}

	if resp.Created > 0 {
		s.LogInfo(ctx, "Provisioned default accounts", slog.Int("created", resp.Created))
		s.RecordAudit(ctx, domain.AuditEvent{
			BusinessID: businessID, UserID: userID, Module: "accounting", Action: "PROVISION_ACCOUNTS",
			EntityID: businessID, After: resp,
		})
	}
	return resp, nil
}

// GetJournalEntry implements portssvc.LedgerSvcFacade.
func (s *ledgerService) GetJournalEntry(ctx context.Context, businessID, entryID string) (*domain.JournalEntry, error) {
	return s.uow.Repositories().JournalRepo.FindJournalByID(ctx, businessID, entryID)
}

// ListJournals implements portssvc.LedgerSvcFacade.
func (s *ledgerService) ListJournals(ctx context.Context, businessID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	if params.NextToken != nil {
		if _, _, err := pagination.DecodeToken(*params.NextToken); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}
	limit := pagination.NormalizeLimit(params.Limit)

	journals, next, err := s.uow.Repositories().JournalRepo.ListJournals(ctx, businessID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journals")
		return nil, err
	}
	if journals == nil {
		journals = []domain.JournalEntry{}
	}
	return &dto.ListJournalsResponse{Journals: journals, NextToken: next}, nil
}

// ReverseJournalEntry implements portssvc.LedgerSvcFacade.
func (s *ledgerService) ReverseJournalEntry(ctx context.Context, businessID, entryID, userID string) (*domain.JournalEntry, error) {
	var reversal *domain.JournalEntry
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		original, err := repos.JournalRepo.FindJournalByID(ctx, businessID, entryID)
		if err != nil {
			return fmt.Errorf("journal %s: %w", entryID, err)
		}
		if original.ReversalOfID != nil {
			return apperrors.ErrJournalIsReversal
		}
		if _, err := repos.JournalRepo.FindReversalOf(ctx, businessID, entryID); err == nil {
			return apperrors.ErrJournalAlreadyReversed
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		now := time.Now().UTC()
		reversal, err = s.postJournal(ctx, repos, domain.JournalEntry{
			BusinessID:    businessID,
			EntryDate:     now,
			Description:   "Reversal of " + original.Description,
			ReferenceType: domain.RefReversal,
			ReferenceID:   original.EntryID,
			ReversalOfID:  &original.EntryID,
			Lines:         original.Reversed(),
			AuditFields:   domain.NewAuditFields(userID, now),
		})
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to reverse journal", slog.String("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Reversed journal entry", slog.String("entry_id", entryID), slog.String("reversal_id", reversal.EntryID))
	s.RecordAudit(ctx, domain.AuditEvent{
		BusinessID: businessID, UserID: userID, Module: "accounting", Action: "REVERSE_JOURNAL",
		EntityID: reversal.EntryID, After: reversal,
	})
	return reversal, nil
}

// CreateAccount implements portssvc.LedgerSvcFacade.
func (s *ledgerService) CreateAccount(ctx context.Context, businessID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	acc := domain.Account{
		AccountID:   uuid.NewString(),
		BusinessID:  businessID,
		Name:        req.Name,
		AccountType: req.AccountType,
		Description: req.Description,
		IsActive:    true,
		Balance:     decimal.Zero,
		AuditFields: domain.NewAuditFields(userID, now),
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.BusinessRepo.FindBusinessByID(ctx, businessID); err != nil {
			return fmt.Errorf("business %s: %w", businessID, err)
		}
		return repos.AccountRepo.SaveAccount(ctx, acc)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create account", slog.String("name", req.Name))
		return nil, err
	}

	s.RecordAudit(ctx, domain.AuditEvent{
		BusinessID: businessID, UserID: userID, Module: "accounting", Action: "CREATE_ACCOUNT",
		EntityID: acc.AccountID, After: acc,
	})
	return &acc, nil
}

// GetAccount implements portssvc.LedgerSvcFacade.
func (s *ledgerService) GetAccount(ctx context.Context, businessID, accountID string) (*domain.Account, error) {
	return s.uow.Repositories().AccountRepo.FindAccountByID(ctx, businessID, accountID)
}

// ListAccounts implements portssvc.LedgerSvcFacade.
func (s *ledgerService) ListAccounts(ctx context.Context, businessID string) (*dto.ListAccountsResponse, error) {
	accounts, err := s.uow.Repositories().AccountRepo.ListAccounts(ctx, businessID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return &dto.ListAccountsResponse{Accounts: accounts}, nil
}
