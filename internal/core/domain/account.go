package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// AccountRole identifies an account the posting templates depend on.
type AccountRole string

const (
	RoleCash               AccountRole = "CASH"
	RoleBank               AccountRole = "BANK"
	RoleAccountsReceivable AccountRole = "ACCOUNTS_RECEIVABLE"
	RoleAccountsPayable    AccountRole = "ACCOUNTS_PAYABLE"
	RoleInventory          AccountRole = "INVENTORY"
	RoleTaxReceivable      AccountRole = "TAX_RECEIVABLE"
	RoleSales              AccountRole = "SALES"
	RoleOtherIncome        AccountRole = "OTHER_INCOME"
	RoleTaxPayable         AccountRole = "TAX_PAYABLE"
	RoleCostOfGoodsSold    AccountRole = "COST_OF_GOODS_SOLD"
)

// AccountTemplate is one entry of the default chart of accounts.
type AccountTemplate struct {
	Role AccountRole
	Name string
	Type AccountType
}

// DefaultChartOfAccounts lists the accounts every tenant needs for automatic posting.
var DefaultChartOfAccounts = []AccountTemplate{
	{Role: RoleCash, Name: "Cash", Type: Asset},
	{Role: RoleBank, Name: "Bank", Type: Asset},
	{Role: RoleAccountsReceivable, Name: "Accounts Receivable", Type: Asset},
	{Role: RoleInventory, Name: "Inventory", Type: Asset},
	{Role: RoleTaxReceivable, Name: "Tax Receivable", Type: Asset},
	{Role: RoleAccountsPayable, Name: "Accounts Payable", Type: Liability},
	{Role: RoleTaxPayable, Name: "Tax Payable", Type: Liability},
	{Role: RoleSales, Name: "Sales", Type: Income},
	{Role: RoleOtherIncome, Name: "Other Income", Type: Income},
	{Role: RoleCostOfGoodsSold, Name: "Cost of Goods Sold", Type: Expense},
}

// AccountName returns the chart-of-accounts name bound to a role.
func AccountName(role AccountRole) (string, error) {
	for _, t := range DefaultChartOfAccounts {
		if t.Role == role {
			return t.Name, nil
		}
	}
	return "", fmt.Errorf("unknown account role %q", role)
}

// Account represents a ledger account owned by one business.
type Account struct {
	AccountID   string          `json:"accountID"`
	BusinessID  string          `json:"businessID"`
	Name        string          `json:"name"`
	AccountType AccountType     `json:"accountType"`
	Description string          `json:"description"`
	IsActive    bool            `json:"isActive"`
	Balance     decimal.Decimal `json:"balance"` // Persisted running balance
	AuditFields
}
