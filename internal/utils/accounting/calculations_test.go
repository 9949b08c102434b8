package accounting

import (
	"testing"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCalculateSignedAmount(t *testing.T) {
	dr := domain.JournalLine{AccountID: "a", Debit: d("10"), Credit: decimal.Zero}
	cr := domain.JournalLine{AccountID: "a", Debit: decimal.Zero, Credit: d("10")}

	tests := []struct {
		name string
		line domain.JournalLine
		typ  domain.AccountType
		want string
	}{
		{"debit asset", dr, domain.Asset, "10"},
		{"credit asset", cr, domain.Asset, "-10"},
		{"debit expense", dr, domain.Expense, "10"},
		{"debit income", dr, domain.Income, "-10"},
		{"credit liability", cr, domain.Liability, "10"},
		{"credit equity", cr, domain.Equity, "10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSignedAmount(tt.line, tt.typ)
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "got %s", got)
		})
	}

	_, err := CalculateSignedAmount(dr, domain.AccountType("BOGUS"))
	assert.Error(t, err)
}

func TestValidateJournalLines(t *testing.T) {
	balanced := []domain.JournalLine{
		{AccountID: "cash", Debit: d("115"), Credit: decimal.Zero},
		{AccountID: "sales", Debit: decimal.Zero, Credit: d("100")},
		{AccountID: "tax", Debit: decimal.Zero, Credit: d("15")},
	}
	assert.NoError(t, ValidateJournalLines(balanced))

	t.Run("single line", func(t *testing.T) {
		err := ValidateJournalLines(balanced[:1])
		assert.ErrorIs(t, err, apperrors.ErrJournalUnbalanced)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unbalanced", func(t *testing.T) {
		err := ValidateJournalLines(balanced[:2])
		assert.ErrorIs(t, err, apperrors.ErrJournalUnbalanced)
	})

	t.Run("two sided line", func(t *testing.T) {
		lines := []domain.JournalLine{
			{AccountID: "cash", Debit: d("5"), Credit: d("5")},
			{AccountID: "sales", Debit: decimal.Zero, Credit: decimal.Zero},
		}
		assert.ErrorIs(t, ValidateJournalLines(lines), apperrors.ErrJournalUnbalanced)
	})

	t.Run("negative", func(t *testing.T) {
		lines := []domain.JournalLine{
			{AccountID: "cash", Debit: d("-5"), Credit: decimal.Zero},
			{AccountID: "sales", Debit: decimal.Zero, Credit: d("-5")},
		}
		assert.ErrorIs(t, ValidateJournalLines(lines), apperrors.ErrJournalUnbalanced)
	})
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, "1.2346", RoundMoney(d("1.23455")).String())
	assert.Equal(t, "-1.2346", RoundMoney(d("-1.23455")).String())
}
