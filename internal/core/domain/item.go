package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemKind discriminates physical products from services.
type ItemKind string

const (
	ItemProduct ItemKind = "PRODUCT"
	ItemService ItemKind = "SERVICE"
)

// TaxType says whether a price already contains tax.
type TaxType string

const (
	TaxInclusive TaxType = "INCLUSIVE"
	TaxExclusive TaxType = "EXCLUSIVE"
)

// TaxRule is the tax applied to an item. Rate is a percentage (15 means 15%).
type TaxRule struct {
	Rate decimal.Decimal `json:"rate"`
	Type TaxType         `json:"type"`
}

// Item is a sellable or purchasable product or service.
type Item struct {
	ItemID     string          `json:"itemID"`
	BusinessID string          `json:"businessID"`
	Name       string          `json:"name"`
	Kind       ItemKind        `json:"kind"`
	TrackStock bool            `json:"trackStock"`
	UnitID     string          `json:"unitID"` // Base unit for stock quantities
	Tax        *TaxRule        `json:"tax,omitempty"`
	CostPrice  decimal.Decimal `json:"costPrice"`
	SalePrice  decimal.Decimal `json:"salePrice"`
	AuditFields
}

// Validate checks the discriminators are known values.
func (i Item) Validate() error {
	switch i.Kind {
	case ItemProduct:
	case ItemService:
		if i.TrackStock {
			return fmt.Errorf("service item %s cannot track stock", i.ItemID)
		}
	default:
		return fmt.Errorf("unknown item kind %q", i.Kind)
	}
	if i.Tax != nil {
		switch i.Tax.Type {
		case TaxInclusive, TaxExclusive:
		default:
			return fmt.Errorf("unknown tax type %q", i.Tax.Type)
		}
	}
	return nil
}

// Unit is a unit of measure.
type Unit struct {
	UnitID     string `json:"unitID"`
	BusinessID string `json:"businessID"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
}

// UnitConversion stores how many To units make up one From unit.
type UnitConversion struct {
	ConversionID string          `json:"conversionID"`
	BusinessID   string          `json:"businessID"`
	FromUnitID   string          `json:"fromUnitID"`
	ToUnitID     string          `json:"toUnitID"`
	Multiplier   decimal.Decimal `json:"multiplier"`
}
