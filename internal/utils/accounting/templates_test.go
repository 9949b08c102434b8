package accounting

import (
	"testing"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sums(ps []Posting) (decimal.Decimal, decimal.Decimal) {
	dr, cr := decimal.Zero, decimal.Zero
	for _, p := range ps {
		dr = dr.Add(p.Debit)
		cr = cr.Add(p.Credit)
	}
	return dr, cr
}

func TestSalePostings(t *testing.T) {
	ps, err := SalePostings(d("100"), d("15"), []domain.Payment{
		{Method: domain.PaymentCash, Amount: d("100")},
		{Method: domain.PaymentCard, Amount: d("15")},
	})
	require.NoError(t, err)
	require.Len(t, ps, 4)

	dr, cr := sums(ps)
	assert.True(t, dr.Equal(cr))
	assert.Equal(t, domain.RoleCash, ps[0].Role)
	assert.Equal(t, domain.RoleBank, ps[1].Role)
	assert.Equal(t, domain.RoleSales, ps[2].Role)
	assert.Equal(t, domain.RoleTaxPayable, ps[3].Role)
}

func TestSalePostings_OmitsZeroTax(t *testing.T) {
	ps, err := SalePostings(d("50"), decimal.Zero, []domain.Payment{{Method: domain.PaymentCredit, Amount: d("50")}})
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, domain.RoleAccountsReceivable, ps[0].Role)
}

func TestSalePostings_UnknownMethod(t *testing.T) {
	_, err := SalePostings(d("50"), decimal.Zero, []domain.Payment{{Method: "BARTER", Amount: d("50")}})
	assert.Error(t, err)
}

func TestReturnPostings(t *testing.T) {
	ps, err := ReturnPostings(d("50"), d("7.5"), []domain.Payment{{Method: domain.PaymentCash, Amount: d("57.5")}})
	require.NoError(t, err)
	dr, cr := sums(ps)
	assert.True(t, dr.Equal(cr))
	assert.Equal(t, domain.RoleSales, ps[0].Role)
	assert.True(t, ps[0].Debit.Equal(d("50")))
}

func TestPurchasePostings_RemainderToPayable(t *testing.T) {
	ps, err := PurchasePostings(d("80"), d("20"), d("10"), []domain.Payment{{Method: domain.PaymentBank, Amount: d("60")}})
	require.NoError(t, err)

	dr, cr := sums(ps)
	assert.True(t, dr.Equal(cr))
	last := ps[len(ps)-1]
	assert.Equal(t, domain.RoleAccountsPayable, last.Role)
	assert.True(t, d("50").Equal(last.Credit))
}

func TestPurchasePostings_CreditPaymentGoesToPayable(t *testing.T) {
	ps, err := PurchasePostings(d("100"), decimal.Zero, decimal.Zero, []domain.Payment{{Method: domain.PaymentCredit, Amount: d("100")}})
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, domain.RoleAccountsPayable, ps[1].Role)
}

func TestAdjustmentPostings(t *testing.T) {
	out := AdjustmentPostings(domain.AdjustmentOut, d("30"))
	require.Len(t, out, 2)
	assert.Equal(t, domain.RoleCostOfGoodsSold, out[0].Role)
	assert.Equal(t, domain.RoleInventory, out[1].Role)

	in := AdjustmentPostings(domain.AdjustmentIn, d("30"))
	require.Len(t, in, 2)
	assert.Equal(t, domain.RoleInventory, in[0].Role)
	assert.Equal(t, domain.RoleOtherIncome, in[1].Role)

	assert.Empty(t, AdjustmentPostings(domain.AdjustmentOut, decimal.Zero))
}
