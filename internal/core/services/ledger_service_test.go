package services_test

import (
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

func (s *ServicesTestSuite) accountID(name string) string {
	acc, err := s.store.Repositories().AccountRepo.FindAccountByName(s.ctx, bizID, name)
	s.Require().NoError(err)
	return acc.AccountID
}

// cashTakings posts Dr Cash / Cr Other Income for amount.
func (s *ServicesTestSuite) cashTakings(amount, description string) *domain.JournalEntry {
	entry, err := s.svc.Ledger.PostJournal(s.ctx, domain.JournalEntry{
		BusinessID:    bizID,
		Description:   description,
		ReferenceType: domain.RefManual,
		Lines: []domain.JournalLine{
			{AccountID: s.accountID("Cash"), Debit: d(amount)},
			{AccountID: s.accountID("Other Income"), Credit: d(amount)},
		},
		AuditFields: domain.NewAuditFields(managerID, time.Now().UTC()),
	})
	s.Require().NoError(err)
	return entry
}

func (s *ServicesTestSuite) TestCreateAndListAccounts() {
	acc, err := s.svc.Ledger.CreateAccount(s.ctx, bizID, dto.CreateAccountRequest{
		Name: "Petty Cash", AccountType: domain.Asset, Description: "Till float",
	}, managerID)
	s.Require().NoError(err)
	s.True(acc.IsActive)
	s.assertDecimal("0", acc.Balance, "new account balance")

	got, err := s.svc.Ledger.GetAccount(s.ctx, bizID, acc.AccountID)
	s.Require().NoError(err)
	s.Equal("Petty Cash", got.Name)
	s.Equal(domain.Asset, got.AccountType)

	list, err := s.svc.Ledger.ListAccounts(s.ctx, bizID)
	s.Require().NoError(err)
	s.Len(list.Accounts, len(domain.DefaultChartOfAccounts)+1)

	s.Contains(s.audit.actions(), "CREATE_ACCOUNT")
}

func (s *ServicesTestSuite) TestCreateAccountRejectsDuplicateName() {
	_, err := s.svc.Ledger.CreateAccount(s.ctx, bizID, dto.CreateAccountRequest{Name: "Cash", AccountType: domain.Asset}, managerID)
	s.ErrorIs(err, apperrors.ErrDuplicate)

	list, err := s.svc.Ledger.ListAccounts(s.ctx, bizID)
	s.Require().NoError(err)
	s.Len(list.Accounts, len(domain.DefaultChartOfAccounts))
}

func (s *ServicesTestSuite) TestCreateAccountValidation() {
	_, err := s.svc.Ledger.CreateAccount(s.ctx, bizID, dto.CreateAccountRequest{Name: "Odd", AccountType: "CONTRA"}, managerID)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Ledger.CreateAccount(s.ctx, "nope", dto.CreateAccountRequest{Name: "Odd", AccountType: domain.Asset}, managerID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ServicesTestSuite) TestGetAccountIsScopedToBusiness() {
	_, err := s.svc.Ledger.GetAccount(s.ctx, "biz-other", s.accountID("Cash"))
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.svc.Ledger.GetAccount(s.ctx, bizID, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ServicesTestSuite) TestListJournalsPagesNewestFirst() {
	posted := map[string]bool{}
	for _, desc := range []string{"first", "second", "third"} {
		posted[s.cashTakings("10", desc).EntryID] = true
		time.Sleep(2 * time.Millisecond)
	}

	page, err := s.svc.Ledger.ListJournals(s.ctx, bizID, dto.ListJournalsParams{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(page.Journals, 2)
	s.Require().NotNil(page.NextToken)
	s.Equal("third", page.Journals[0].Description)
	s.Equal("second", page.Journals[1].Description)
	s.Len(page.Journals[0].Lines, 2)

	rest, err := s.svc.Ledger.ListJournals(s.ctx, bizID, dto.ListJournalsParams{Limit: 2, NextToken: page.NextToken})
	s.Require().NoError(err)
	s.Require().Len(rest.Journals, 1)
	s.Nil(rest.NextToken)
	s.Equal("first", rest.Journals[0].Description)

	seen := map[string]bool{}
	for _, e := range append(page.Journals, rest.Journals...) {
		seen[e.EntryID] = true
	}
	s.Equal(posted, seen)

	bad := "not-a-token"
	_, err = s.svc.Ledger.ListJournals(s.ctx, bizID, dto.ListJournalsParams{NextToken: &bad})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ServicesTestSuite) TestReverseJournalEntryRestoresBalances() {
	original := s.cashTakings("100", "Float top-up")
	s.assertDecimal("100", s.balance("Cash"), "cash after posting")
	s.assertDecimal("100", s.balance("Other Income"), "income after posting")

	reversal, err := s.svc.Ledger.ReverseJournalEntry(s.ctx, bizID, original.EntryID, managerID)
	s.Require().NoError(err)
	s.Equal(domain.RefReversal, reversal.ReferenceType)
	s.Equal(original.EntryID, reversal.ReferenceID)
	s.Require().NotNil(reversal.ReversalOfID)
	s.Equal(original.EntryID, *reversal.ReversalOfID)
	s.Equal("Reversal of Float top-up", reversal.Description)
	s.assertDecimal("100", reversal.Amount, "reversal amount")

	s.Require().Len(reversal.Lines, 2)
	for i, l := range reversal.Lines {
		s.Equal(original.Lines[i].AccountID, l.AccountID)
		s.True(original.Lines[i].Debit.Equal(l.Credit))
		s.True(original.Lines[i].Credit.Equal(l.Debit))
	}
	s.assertBalancedJournal(reversal.EntryID)

	s.assertDecimal("0", s.balance("Cash"), "cash restored")
	s.assertDecimal("0", s.balance("Other Income"), "income restored")
	s.Contains(s.audit.actions(), "REVERSE_JOURNAL")
}

func (s *ServicesTestSuite) TestReverseJournalEntryOnlyOnce() {
	original := s.cashTakings("40", "Sundry")
	reversal, err := s.svc.Ledger.ReverseJournalEntry(s.ctx, bizID, original.EntryID, managerID)
	s.Require().NoError(err)

	_, err = s.svc.Ledger.ReverseJournalEntry(s.ctx, bizID, original.EntryID, managerID)
	s.ErrorIs(err, apperrors.ErrJournalAlreadyReversed)
	s.ErrorIs(err, apperrors.ErrPolicyViolation)

	_, err = s.svc.Ledger.ReverseJournalEntry(s.ctx, bizID, reversal.EntryID, managerID)
	s.ErrorIs(err, apperrors.ErrJournalIsReversal)

	_, err = s.svc.Ledger.ReverseJournalEntry(s.ctx, bizID, "missing", managerID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.assertDecimal("0", s.balance("Cash"), "cash reversed exactly once")
}

func (s *ServicesTestSuite) TestReverseSaleJournal() {
	s.stockIn("10", "", nil)
	sale, err := s.svc.Sale.CreateSale(s.ctx, bizID, cashSale(trackedItem, "2", "50", "110"), userID)
	s.Require().NoError(err)
	s.assertDecimal("110", s.balance("Cash"), "cash after sale")

	_, err = s.svc.Ledger.ReverseJournalEntry(s.ctx, bizID, sale.JournalID, managerID)
	s.Require().NoError(err)
	s.assertDecimal("0", s.balance("Cash"), "cash after reversal")
	s.assertDecimal("0", s.balance("Sales"), "sales after reversal")
	s.assertDecimal("0", s.balance("Tax Payable"), "tax after reversal")
	s.assertDecimal("8", s.stockQty(), "reversal leaves stock alone")
}
