package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how money changed hands.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCard   PaymentMethod = "CARD"
	PaymentBank   PaymentMethod = "BANK"
	PaymentCredit PaymentMethod = "CREDIT"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentBank, PaymentCredit:
		return true
	}
	return false
}

// SettlementRole returns the account a customer-side payment or refund settles through.
func (m PaymentMethod) SettlementRole() (AccountRole, error) {
	switch m {
	case PaymentCash:
		return RoleCash, nil
	case PaymentCard, PaymentBank:
		return RoleBank, nil
	case PaymentCredit:
		return RoleAccountsReceivable, nil
	}
	return "", fmt.Errorf("unknown payment method %q", m)
}

// SupplierSettlementRole returns the account a supplier-side payment settles through.
func (m PaymentMethod) SupplierSettlementRole() (AccountRole, error) {
	switch m {
	case PaymentCash:
		return RoleCash, nil
	case PaymentCard, PaymentBank:
		return RoleBank, nil
	case PaymentCredit:
		return RoleAccountsPayable, nil
	}
	return "", fmt.Errorf("unknown payment method %q", m)
}

// Payment is money received for a sale, paid for a purchase, or refunded on a return.
type Payment struct {
	PaymentID   string          `json:"paymentID"`
	BusinessID  string          `json:"businessID"`
	Method      PaymentMethod   `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	ReferenceNo string          `json:"referenceNo,omitempty"`
}

// SumPayments totals a payment list.
func SumPayments(payments []Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}
