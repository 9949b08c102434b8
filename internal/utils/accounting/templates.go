package accounting

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Posting is a journal line addressed by account role rather than account ID.
type Posting struct {
	Role   domain.AccountRole
	Debit  decimal.Decimal
	Credit decimal.Decimal
	Notes  string
}

func debit(role domain.AccountRole, amount decimal.Decimal, notes string) Posting {
	return Posting{Role: role, Debit: amount, Credit: decimal.Zero, Notes: notes}
}

func credit(role domain.AccountRole, amount decimal.Decimal, notes string) Posting {
	return Posting{Role: role, Debit: decimal.Zero, Credit: amount, Notes: notes}
}

// appendNonZero drops zero-amount postings.
func appendNonZero(dst []Posting, p Posting) []Posting {
	if p.Debit.IsZero() && p.Credit.IsZero() {
		return dst
	}
	return append(dst, p)
}

// SalePostings credits Sales with the discounted net and Tax Payable with the tax,
// and debits the settlement account of each payment.
func SalePostings(netAfterDiscount, tax decimal.Decimal, payments []domain.Payment) ([]Posting, error) {
	var out []Posting
	for _, p := range payments {
		role, err := p.Method.SettlementRole()
		if err != nil {
			return nil, err
		}
		out = appendNonZero(out, debit(role, p.Amount, "Payment "+string(p.Method)))
	}
	out = appendNonZero(out, credit(domain.RoleSales, netAfterDiscount, "Sales revenue"))
	out = appendNonZero(out, credit(domain.RoleTaxPayable, tax, "Output tax"))
	return out, nil
}

// ReturnPostings reverses a sale: debits Sales and Tax Payable, credits each refund.
func ReturnPostings(returnedNet, returnedTax decimal.Decimal, refunds []domain.Payment) ([]Posting, error) {
	var out []Posting
	out = appendNonZero(out, debit(domain.RoleSales, returnedNet, "Sales return"))
	out = appendNonZero(out, debit(domain.RoleTaxPayable, returnedTax, "Output tax reversal"))
	for _, r := range refunds {
		role, err := r.Method.SettlementRole()
		if err != nil {
			return nil, err
		}
		out = appendNonZero(out, credit(role, r.Amount, "Refund "+string(r.Method)))
	}
	return out, nil
}

// PurchasePostings debits Inventory for stock-tracked goods, Cost of Goods Sold for the rest
// and Tax Receivable for input tax. Each payment is credited to its settlement account and
// whatever remains unpaid is credited to Accounts Payable.
func PurchasePostings(trackedNet, untrackedNet, tax decimal.Decimal, payments []domain.Payment) ([]Posting, error) {
	var out []Posting
	out = appendNonZero(out, debit(domain.RoleInventory, trackedNet, "Inventory purchase"))
	out = appendNonZero(out, debit(domain.RoleCostOfGoodsSold, untrackedNet, "Non-stock purchase"))
	out = appendNonZero(out, debit(domain.RoleTaxReceivable, tax, "Input tax"))

	total := trackedNet.Add(untrackedNet).Add(tax)
	paid := decimal.Zero
	for _, p := range payments {
		role, err := p.Method.SupplierSettlementRole()
		if err != nil {
			return nil, err
		}
		paid = paid.Add(p.Amount)
		out = appendNonZero(out, credit(role, p.Amount, "Supplier payment "+string(p.Method)))
	}
	if remainder := total.Sub(paid); remainder.IsPositive() {
		out = append(out, credit(domain.RoleAccountsPayable, remainder, "Unpaid balance"))
	}
	return out, nil
}

// AdjustmentPostings values a stock correction against Inventory.
// OUT expenses the loss to Cost of Goods Sold, IN books the gain as Other Income.
func AdjustmentPostings(kind domain.AdjustmentType, value decimal.Decimal) []Posting {
	var out []Posting
	switch kind {
	case domain.AdjustmentOut:
		out = appendNonZero(out, debit(domain.RoleCostOfGoodsSold, value, "Stock write-off"))
		out = appendNonZero(out, credit(domain.RoleInventory, value, "Stock write-off"))
	case domain.AdjustmentIn:
		out = appendNonZero(out, debit(domain.RoleInventory, value, "Stock gain"))
		out = appendNonZero(out, credit(domain.RoleOtherIncome, value, "Stock gain"))
	}
	return out
}
