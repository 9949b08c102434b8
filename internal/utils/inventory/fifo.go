package inventory

import (
	"sort"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// QuantityPlaces is the scale stock quantities are stored at.
const QuantityPlaces = 6

// RoundQuantity rounds half away from zero to QuantityPlaces.
func RoundQuantity(q decimal.Decimal) decimal.Decimal {
	return q.Round(QuantityPlaces)
}

// SortForConsumption orders batches expiring soonest first, batches without expiry last,
// then by creation time and ID.
func SortForConsumption(batches []domain.StockBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		switch {
		case a.ExpiryDate != nil && b.ExpiryDate != nil:
			if !a.ExpiryDate.Equal(*b.ExpiryDate) {
				return a.ExpiryDate.Before(*b.ExpiryDate)
			}
		case a.ExpiryDate != nil:
			return true
		case b.ExpiryDate != nil:
			return false
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.BatchID < b.BatchID
	})
}

// PlanConsumption takes qty from batches in consumption order without mutating them.
// Empty batches are skipped. The returned shortfall is the part of qty no batch could cover.
func PlanConsumption(batches []domain.StockBatch, qty decimal.Decimal) ([]domain.BatchAllocation, decimal.Decimal) {
	ordered := make([]domain.StockBatch, 0, len(batches))
	for _, b := range batches {
		if b.Quantity.IsPositive() {
			ordered = append(ordered, b)
		}
	}
	SortForConsumption(ordered)

	remaining := qty
	var allocs []domain.BatchAllocation
	for _, b := range ordered {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(b.Quantity, remaining)
		allocs = append(allocs, domain.BatchAllocation{
			BatchID:   b.BatchID,
			Quantity:  take,
			Remaining: b.Quantity.Sub(take),
			UnitCost:  b.UnitCost,
		})
		remaining = remaining.Sub(take)
	}
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return allocs, remaining
}

// AllocationCost is Σ quantity × unit cost over the allocations.
func AllocationCost(allocs []domain.BatchAllocation) decimal.Decimal {
	cost := decimal.Zero
	for _, a := range allocs {
		cost = cost.Add(a.Quantity.Mul(a.UnitCost))
	}
	return cost
}

// SumBatches totals the quantity held in batches.
func SumBatches(batches []domain.StockBatch) decimal.Decimal {
	sum := decimal.Zero
	for _, b := range batches {
		sum = sum.Add(b.Quantity)
	}
	return sum
}
