package dto

import "github.com/SscSPs/ledger_engine/internal/core/domain"

// CreateAccountRequest adds an account to a business's chart of accounts.
type CreateAccountRequest struct {
	Name        string             `json:"name" validate:"required,max=128"`
	AccountType domain.AccountType `json:"accountType" validate:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	Description string             `json:"description" validate:"omitempty,max=512"`
}

// ProvisionAccountsResponse lists the chart of accounts after provisioning.
type ProvisionAccountsResponse struct {
	Accounts []domain.Account `json:"accounts"`
	Created  int              `json:"created"`
}

// ListAccountsResponse is the chart of accounts of a business.
type ListAccountsResponse struct {
	Accounts []domain.Account `json:"accounts"`
}

// ListJournalsParams pages through journal entries, newest first.
type ListJournalsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListJournalsResponse is one page of journal entries with their lines.
type ListJournalsResponse struct {
	Journals  []domain.JournalEntry `json:"journals"`
	NextToken *string               `json:"nextToken,omitempty"`
}
