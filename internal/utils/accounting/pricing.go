package accounting

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LinePrice is the breakdown of one priced sale line.
type LinePrice struct {
	Gross        decimal.Decimal
	Net          decimal.Decimal
	Tax          decimal.Decimal
	LineDiscount decimal.Decimal
	Total        decimal.Decimal
}

// PriceLine computes net, tax and total for quantity units at unitPrice with a per-unit discount.
// Amounts are rounded to MoneyPlaces.
func PriceLine(unitPrice, quantity, discountPerUnit decimal.Decimal, tax *domain.TaxRule) LinePrice {
	gross := unitPrice.Mul(quantity)
	net, taxAmt := gross, decimal.Zero

	if tax != nil && tax.Rate.IsPositive() {
		rate := tax.Rate.Div(hundred)
		switch tax.Type {
		case domain.TaxInclusive:
			net = gross.Div(decimal.NewFromInt(1).Add(rate))
			taxAmt = gross.Sub(RoundMoney(net))
		case domain.TaxExclusive:
			taxAmt = net.Mul(rate)
		}
	}

	p := LinePrice{
		Gross:        RoundMoney(gross),
		Net:          RoundMoney(net),
		Tax:          RoundMoney(taxAmt),
		LineDiscount: RoundMoney(discountPerUnit.Mul(quantity)),
	}
	p.Total = p.Net.Add(p.Tax).Sub(p.LineDiscount)
	return p
}

// DiscountPercent expresses a per-unit discount as a percentage of the unit price.
func DiscountPercent(discountPerUnit, unitPrice decimal.Decimal) decimal.Decimal {
	if unitPrice.IsZero() {
		if discountPerUnit.IsZero() {
			return decimal.Zero
		}
		return hundred
	}
	return discountPerUnit.Div(unitPrice).Mul(hundred)
}

// Prorate returns amount × part ÷ whole rounded to MoneyPlaces.
func Prorate(amount, part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return RoundMoney(amount.Mul(part).Div(whole))
}
