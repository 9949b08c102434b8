package inventory

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPlanConsumption_OldestFirst(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	batches := []domain.StockBatch{
		{BatchID: "b2", Quantity: d("5"), UnitCost: d("3"), CreatedAt: t0.Add(time.Hour)},
		{BatchID: "b1", Quantity: d("10"), UnitCost: d("2"), CreatedAt: t0},
	}

	allocs, shortfall := PlanConsumption(batches, d("12"))

	require.Len(t, allocs, 2)
	assert.True(t, shortfall.IsZero())
	assert.Equal(t, "b1", allocs[0].BatchID)
	assert.True(t, d("10").Equal(allocs[0].Quantity))
	assert.True(t, allocs[0].Remaining.IsZero())
	assert.Equal(t, "b2", allocs[1].BatchID)
	assert.True(t, d("2").Equal(allocs[1].Quantity))
	assert.True(t, d("3").Equal(allocs[1].Remaining))
	assert.True(t, d("26").Equal(AllocationCost(allocs)))

	// Input is left untouched.
	assert.True(t, d("5").Equal(batches[0].Quantity))
}

func TestPlanConsumption_ExpiryFirstNullsLast(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := t0.AddDate(0, 6, 0)
	soon := t0.AddDate(0, 1, 0)
	batches := []domain.StockBatch{
		{BatchID: "none", Quantity: d("4"), CreatedAt: t0},
		{BatchID: "late", Quantity: d("4"), CreatedAt: t0, ExpiryDate: &late},
		{BatchID: "soon", Quantity: d("4"), CreatedAt: t0.Add(time.Hour), ExpiryDate: &soon},
	}

	allocs, _ := PlanConsumption(batches, d("10"))

	require.Len(t, allocs, 3)
	assert.Equal(t, "soon", allocs[0].BatchID)
	assert.Equal(t, "late", allocs[1].BatchID)
	assert.Equal(t, "none", allocs[2].BatchID)
	assert.True(t, d("2").Equal(allocs[2].Quantity))
}

func TestPlanConsumption_Shortfall(t *testing.T) {
	batches := []domain.StockBatch{
		{BatchID: "a", Quantity: d("2")},
		{BatchID: "empty", Quantity: decimal.Zero},
	}

	allocs, shortfall := PlanConsumption(batches, d("3"))

	require.Len(t, allocs, 1)
	assert.True(t, d("1").Equal(shortfall))
}

func TestPlanConsumption_TieBreaksOnID(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	batches := []domain.StockBatch{
		{BatchID: "z", Quantity: d("1"), CreatedAt: t0},
		{BatchID: "a", Quantity: d("1"), CreatedAt: t0},
	}
	allocs, _ := PlanConsumption(batches, d("1"))
	require.Len(t, allocs, 1)
	assert.Equal(t, "a", allocs[0].BatchID)
}

func TestSumBatches(t *testing.T) {
	assert.True(t, d("7.5").Equal(SumBatches([]domain.StockBatch{{Quantity: d("5")}, {Quantity: d("2.5")}})))
	assert.True(t, SumBatches(nil).IsZero())
}

func TestRoundQuantity(t *testing.T) {
	third := d("1").Div(d("3"))
	assert.Equal(t, "0.333333", RoundQuantity(third).String())
	assert.Equal(t, "0.666667", RoundQuantity(d("2").Div(d("3"))).String())
	assert.Equal(t, "12", RoundQuantity(d("12")).String())
}
