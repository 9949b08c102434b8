package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	bizID     = "biz-1"
	whID      = "wh-1"
	userID    = "cashier-1"
	managerID = "manager-1"

	trackedItem   = "item-widget"
	inclusiveItem = "item-bundle"
	serviceItem   = "item-repair"
)

// recordingSink keeps audit events in memory.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (r *recordingSink) Record(_ context.Context, event domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSink) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Action
	}
	return out
}

type ServicesTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	audit *recordingSink
	svc   *portssvc.ServiceContainer
}

func TestServicesTestSuite(t *testing.T) {
	suite.Run(t, new(ServicesTestSuite))
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func (s *ServicesTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.New()
	s.audit = &recordingSink{}
	s.svc = services.NewServiceContainer(s.store, services.WithAuditSink(s.audit))

	now := time.Now().UTC()
	err := s.store.WithinTx(s.ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if err := repos.BusinessRepo.SaveBusiness(ctx, domain.Business{
			BusinessID: bizID, Name: "Corner Shop", AuditFields: domain.NewAuditFields(managerID, now),
		}); err != nil {
			return err
		}
		if err := repos.BusinessRepo.SaveWarehouse(ctx, domain.Warehouse{
			WarehouseID: whID, BusinessID: bizID, Name: "Front", IsActive: true,
		}); err != nil {
			return err
		}
		for _, u := range []domain.Unit{
			{UnitID: "pcs", BusinessID: bizID, Name: "Piece", Symbol: "pc"},
			{UnitID: "box", BusinessID: bizID, Name: "Box", Symbol: "bx"},
		} {
			if err := repos.UnitRepo.SaveUnit(ctx, u); err != nil {
				return err
			}
		}
		if err := repos.UnitRepo.SaveConversion(ctx, domain.UnitConversion{
			ConversionID: "conv-1", BusinessID: bizID, FromUnitID: "box", ToUnitID: "pcs", Multiplier: d("12"),
		}); err != nil {
			return err
		}
		items := []domain.Item{
			{
				ItemID: trackedItem, BusinessID: bizID, Name: "Widget", Kind: domain.ItemProduct, TrackStock: true,
				UnitID: "pcs", CostPrice: d("5"), SalePrice: d("50"),
				Tax: &domain.TaxRule{Rate: d("10"), Type: domain.TaxExclusive},
			},
			{
				ItemID: inclusiveItem, BusinessID: bizID, Name: "Bundle", Kind: domain.ItemProduct,
				UnitID: "pcs", SalePrice: d("110"),
				Tax: &domain.TaxRule{Rate: d("10"), Type: domain.TaxInclusive},
			},
			{
				ItemID: serviceItem, BusinessID: bizID, Name: "Repair", Kind: domain.ItemService,
				UnitID: "pcs", SalePrice: d("30"),
			},
		}
		for _, it := range items {
			it.AuditFields = domain.NewAuditFields(managerID, now)
			if err := repos.ItemRepo.SaveItem(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
	s.Require().NoError(err)

	_, err = s.svc.Ledger.ProvisionDefaultAccounts(s.ctx, bizID, managerID)
	s.Require().NoError(err)
}

func (s *ServicesTestSuite) stockIn(qty string, batchNo string, unitCost *decimal.Decimal) *domain.StockChange {
	change, err := s.svc.Inventory.AdjustStock(s.ctx, bizID, dto.AdjustStockRequest{
		ItemID: trackedItem, WarehouseID: whID, Quantity: d(qty), UnitID: "pcs",
		Type: domain.MovementIn, ReferenceType: domain.RefManual, BatchNo: batchNo, UnitCost: unitCost,
	}, managerID)
	s.Require().NoError(err)
	return change
}

func (s *ServicesTestSuite) stockQty() decimal.Decimal {
	stock, err := s.store.Repositories().StockRepo.FindStock(s.ctx, bizID, whID, trackedItem)
	s.Require().NoError(err)
	return stock.Quantity
}

func (s *ServicesTestSuite) balance(name string) decimal.Decimal {
	acc, err := s.store.Repositories().AccountRepo.FindAccountByName(s.ctx, bizID, name)
	s.Require().NoError(err)
	return acc.Balance
}

func (s *ServicesTestSuite) assertDecimal(expected string, actual decimal.Decimal, msg string) {
	s.True(d(expected).Equal(actual), "%s: expected %s, got %s", msg, expected, actual.String())
}

func (s *ServicesTestSuite) assertBalancedJournal(entryID string) *domain.JournalEntry {
	entry, err := s.svc.Ledger.GetJournalEntry(s.ctx, bizID, entryID)
	s.Require().NoError(err)
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range entry.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	s.True(debit.Equal(credit), "journal %s debits %s credits %s", entryID, debit, credit)
	return entry
}

func cashSale(itemID, qty, unitPrice, paid string) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		WarehouseID: whID,
		Items:       []dto.SaleItemRequest{{ItemID: itemID, Quantity: d(qty), UnitID: "pcs", UnitPrice: d(unitPrice)}},
		Payments:    []dto.PaymentRequest{{Method: domain.PaymentCash, Amount: d(paid)}},
	}
}

func (s *ServicesTestSuite) TestProvisionIsIdempotent() {
	resp, err := s.svc.Ledger.ProvisionDefaultAccounts(s.ctx, bizID, managerID)
	s.Require().NoError(err)
	s.Equal(0, resp.Created)
	s.Len(resp.Accounts, len(domain.DefaultChartOfAccounts))
}

func (s *ServicesTestSuite) TestBatchConsumptionIsFIFO() {
	_, err := s.svc.Config.SetFeature(s.ctx, bizID, domain.FeatureBatchTracking, dto.SetFeatureRequest{Enabled: true}, managerID)
	s.Require().NoError(err)

	first := s.stockIn("10", "B1", dp("2"))
	s.Require().NotNil(first.Batch)
	time.Sleep(2 * time.Millisecond)
	second := s.stockIn("5", "B2", dp("3"))
	s.Require().NotNil(second.Batch)

	out, err := s.svc.Inventory.AdjustStock(s.ctx, bizID, dto.AdjustStockRequest{
		ItemID: trackedItem, WarehouseID: whID, Quantity: d("12"), UnitID: "pcs",
		Type: domain.MovementOut, ReferenceType: domain.RefManual,
	}, managerID)
	s.Require().NoError(err)

	s.Require().Len(out.Allocations, 2)
	s.Equal(first.Batch.BatchID, out.Allocations[0].BatchID)
	s.assertDecimal("10", out.Allocations[0].Quantity, "first batch taken")
	s.assertDecimal("0", out.Allocations[0].Remaining, "first batch remaining")
	s.Equal(second.Batch.BatchID, out.Allocations[1].BatchID)
	s.assertDecimal("2", out.Allocations[1].Quantity, "second batch taken")
	s.assertDecimal("3", out.Allocations[1].Remaining, "second batch remaining")
	s.assertDecimal("26", out.Cost, "fifo cost")
	s.assertDecimal("-12", out.Movement.Quantity, "signed movement")

	stock, err := s.svc.Inventory.GetWarehouseStock(s.ctx, bizID, whID)
	s.Require().NoError(err)
	s.Require().Len(stock, 1)
	s.assertDecimal("3", stock[0].Quantity, "stock quantity")
	batchSum := decimal.Zero
	for _, b := range stock[0].Batches {
		batchSum = batchSum.Add(b.Quantity)
	}
	s.assertDecimal("3", batchSum, "batch sum matches stock")
}

func (s *ServicesTestSuite) TestBatchShortfallRejectedWithoutNegativeStock() {
	_, err := s.svc.Config.SetFeature(s.ctx, bizID, domain.FeatureBatchTracking, dto.SetFeatureRequest{Enabled: true}, managerID)
	s.Require().NoError(err)
	s.stockIn("4", "B1", nil)

	_, err = s.svc.Inventory.AdjustStock(s.ctx, bizID, dto.AdjustStockRequest{
		ItemID: trackedItem, WarehouseID: whID, Quantity: d("5"), UnitID: "pcs",
		Type: domain.MovementOut, ReferenceType: domain.RefManual,
	}, managerID)
	s.ErrorIs(err, apperrors.ErrInsufficientStock)
	s.assertDecimal("4", s.stockQty(), "stock untouched")
}

func (s *ServicesTestSuite) TestNegativeStockAllowedByRule() {
	_, err := s.svc.Config.SetRule(s.ctx, bizID, domain.RuleStockAllowNegative, dto.SetRuleRequest{Value: true}, managerID)
	s.Require().NoError(err)

	_, err = s.svc.Inventory.AdjustStock(s.ctx, bizID, dto.AdjustStockRequest{
		ItemID: trackedItem, WarehouseID: whID, Quantity: d("2"), UnitID: "pcs",
		Type: domain.MovementOut, ReferenceType: domain.RefManual,
	}, managerID)
	s.Require().NoError(err)
	s.assertDecimal("-2", s.stockQty(), "negative stock")
}

func (s *ServicesTestSuite) TestUnitConversionAppliesToStock() {
	_, err := s.svc.Inventory.AdjustStock(s.ctx, bizID, dto.AdjustStockRequest{
		ItemID: trackedItem, WarehouseID: whID, Quantity: d("2"), UnitID: "box",
		Type: domain.MovementIn, ReferenceType: domain.RefManual,
	}, managerID)
	s.Require().NoError(err)
	s.assertDecimal("24", s.stockQty(), "boxes converted to pieces")

	pcs, err := s.svc.Unit.Convert(s.ctx, bizID, d("36"), "pcs", "box")
	s.Require().NoError(err)
	s.assertDecimal("3", pcs, "reverse conversion")

	_, err = s.svc.Unit.Convert(s.ctx, bizID, d("1"), "pcs", "crate")
	s.ErrorIs(err, apperrors.ErrConversionNotFound)
	s.ErrorIs(err, apperrors.ErrPreconditionFailed)
}

func (s *ServicesTestSuite) TestAdjustStockRejectsUntrackedItem() {
	_, err := s.svc.Inventory.AdjustStock(s.ctx, bizID, dto.AdjustStockRequest{
		ItemID: serviceItem, WarehouseID: whID, Quantity: d("1"), UnitID: "pcs",
		Type: domain.MovementIn, ReferenceType: domain.RefManual,
	}, managerID)
	s.ErrorIs(err, apperrors.ErrNotTracked)
}

func (s *ServicesTestSuite) TestExclusiveTaxSalePostsBalancedJournal() {
	s.stockIn("10", "", nil)

	sale, err := s.svc.Sale.CreateSale(s.ctx, bizID, cashSale(trackedItem, "2", "50", "110"), userID)
	s.Require().NoError(err)

	s.assertDecimal("100", sale.Subtotal, "subtotal")
	s.assertDecimal("10", sale.TaxTotal, "tax")
	s.assertDecimal("110", sale.Total, "total")
	s.NotEmpty(sale.InvoiceNumber)
	s.Require().NotEmpty(sale.JournalID)

	entry := s.assertBalancedJournal(sale.JournalID)
	s.Equal(domain.RefPOS, entry.ReferenceType)
	s.Equal(sale.SaleID, entry.ReferenceID)

	s.assertDecimal("110", s.balance("Cash"), "cash")
	s.assertDecimal("100", s.balance("Sales"), "sales")
	s.assertDecimal("10", s.balance("Tax Payable"), "tax payable")
	s.assertDecimal("8", s.stockQty(), "stock after sale")

	stored, err := s.svc.Sale.GetSale(s.ctx, bizID, sale.SaleID)
	s.Require().NoError(err)
	s.Equal(sale.InvoiceNumber, stored.InvoiceNumber)
	s.Contains(s.audit.actions(), "CREATE_SALE")
}

func (s *ServicesTestSuite) TestInclusiveTaxSaleSplitsGross() {
	sale, err := s.svc.Sale.CreateSale(s.ctx, bizID, cashSale(inclusiveItem, "1", "110", "110"), userID)
	s.Require().NoError(err)

	s.assertDecimal("100", sale.Subtotal, "net")
	s.assertDecimal("10", sale.TaxTotal, "tax")
	s.assertDecimal("110", sale.Total, "total")
	s.assertBalancedJournal(sale.JournalID)
}

func (s *ServicesTestSuite) TestSaleRollsBackOnInsufficientStock() {
	s.stockIn("3", "", nil)

	req := dto.CreateSaleRequest{
		WarehouseID: whID,
		Items: []dto.SaleItemRequest{
			{ItemID: serviceItem, Quantity: d("1"), UnitID: "pcs", UnitPrice: d("30")},
			{ItemID: trackedItem, Quantity: d("5"), UnitID: "pcs", UnitPrice: d("50")},
		},
		Payments: []dto.PaymentRequest{{Method: domain.PaymentCash, Amount: d("305")}},
	}
	_, err := s.svc.Sale.CreateSale(s.ctx, bizID, req, userID)
	s.ErrorIs(err, apperrors.ErrInsufficientStock)
	s.ErrorIs(err, apperrors.ErrPolicyViolation)

	s.assertDecimal("3", s.stockQty(), "stock unchanged")
	s.assertDecimal("0", s.balance("Cash"), "cash unchanged")

	movements, err := s.svc.Inventory.ListMovements(s.ctx, bizID, whID, trackedItem, dto.ListMovementsParams{})
	s.Require().NoError(err)
	s.Len(movements.Movements, 1)
}

func (s *ServicesTestSuite) TestSalePaymentMustMatchTotal() {
	_, err := s.svc.Sale.CreateSale(s.ctx, bizID, cashSale(serviceItem, "1", "30", "25"), userID)
	s.ErrorIs(err, apperrors.ErrPaymentMismatch)
}

func (s *ServicesTestSuite) TestDiscountCapBoundary() {
	atCap := dto.CreateSaleRequest{
		WarehouseID: whID,
		Items:       []dto.SaleItemRequest{{ItemID: serviceItem, Quantity: d("1"), UnitID: "pcs", UnitPrice: d("100"), DiscountAmount: dp("10")}},
		Payments:    []dto.PaymentRequest{{Method: domain.PaymentCard, Amount: d("90")}},
	}
	sale, err := s.svc.Sale.CreateSale(s.ctx, bizID, atCap, userID)
	s.Require().NoError(err)
	s.assertDecimal("10", sale.DiscountTotal, "discount")
	s.assertDecimal("90", sale.Total, "total")
	s.assertDecimal("90", s.balance("Bank"), "card settles to bank")
	s.assertDecimal("90", s.balance("Sales"), "sales net of discount")

	overCap := atCap
	overCap.Items = []dto.SaleItemRequest{{ItemID: serviceItem, Quantity: d("1"), UnitID: "pcs", UnitPrice: d("100"), DiscountAmount: dp("10.01")}}
	overCap.Payments = []dto.PaymentRequest{{Method: domain.PaymentCard, Amount: d("89.99")}}
	_, err = s.svc.Sale.CreateSale(s.ctx, bizID, overCap, userID)
	s.ErrorIs(err, apperrors.ErrDiscountExceedsCap)
}

func (s *ServicesTestSuite) TestSaleRequiresOpenDayWhenConfigured() {
	_, err := s.svc.Config.SetRule(s.ctx, bizID, domain.RulePOSRequireOpenDay, dto.SetRuleRequest{Value: true}, managerID)
	s.Require().NoError(err)

	_, err = s.svc.Sale.CreateSale(s.ctx, bizID, cashSale(serviceItem, "1", "30", "30"), userID)
	s.ErrorIs(err, apperrors.ErrDayNotOpen)
}

func (s *ServicesTestSuite) TestSaleThenFullReturnRestoresState() {
	s.stockIn("10", "", nil)
	sale, err := s.svc.Sale.CreateSale(s.ctx, bizID, cashSale(trackedItem, "2", "50", "110"), userID)
	s.Require().NoError(err)

	ret, err := s.svc.Return.ProcessReturn(s.ctx, bizID, dto.ProcessReturnRequest{
		SaleID:  sale.SaleID,
		Items:   []dto.ReturnItemRequest{{ItemID: trackedItem, Quantity: d("2")}},
		Refunds: []dto.PaymentRequest{{Method: domain.PaymentCash, Amount: d("110")}},
		Reason:  "damaged",
	}, userID)
	s.Require().NoError(err)
	s.assertDecimal("110", ret.Total, "return total")
	s.assertBalancedJournal(ret.JournalID)

	s.assertDecimal("10", s.stockQty(), "stock restored")
	s.assertDecimal("0", s.balance("Cash"), "cash restored")
	s.assertDecimal("0", s.balance("Sales"), "sales reversed")
	s.assertDecimal("0", s.balance("Tax Payable"), "tax reversed")

	_, err = s.svc.Return.ProcessReturn(s.ctx, bizID, dto.ProcessReturnRequest{
		SaleID:  sale.SaleID,
		Items:   []dto.ReturnItemRequest{{ItemID: trackedItem, Quantity: d("1")}},
		Refunds: []dto.PaymentRequest{{Method: domain.PaymentCash, Amount: d("55")}},
	}, userID)
	s.ErrorIs(err, apperrors.ErrReturnExceedsRemaining)
}

func (s *ServicesTestSuite) TestPartialReturnRefundMustMatch() {
	s.stockIn("10", "", nil)
	sale, err := s.svc.Sale.CreateSale(s.ctx, bizID, cashSale(trackedItem, "2", "50", "110"), userID)
	s.Require().NoError(err)

	_, err = s.svc.Return.ProcessReturn(s.ctx, bizID, dto.ProcessReturnRequest{
		SaleID:  sale.SaleID,
		Items:   []dto.ReturnItemRequest{{ItemID: trackedItem, Quantity: d("1")}},
		Refunds: []dto.PaymentRequest{{Method: domain.PaymentCash, Amount: d("50")}},
	}, userID)
	s.ErrorIs(err, apperrors.ErrRefundMismatch)
	s.assertDecimal("8", s.stockQty(), "failed return leaves stock")

	_, err = s.svc.Return.ProcessReturn(s.ctx, bizID, dto.ProcessReturnRequest{
		SaleID:  sale.SaleID,
		Items:   []dto.ReturnItemRequest{{ItemID: trackedItem, Quantity: d("1")}},
		Refunds: []dto.PaymentRequest{{Method: domain.PaymentCash, Amount: d("55")}},
	}, userID)
	s.Require().NoError(err)
	s.assertDecimal("9", s.stockQty(), "one unit back")
}

func (s *ServicesTestSuite) TestPurchaseCreditsPayableForUnpaidPart() {
	purchase, err := s.svc.Purchase.CreatePurchase(s.ctx, bizID, dto.CreatePurchaseRequest{
		WarehouseID: whID,
		Items:       []dto.PurchaseItemRequest{{ItemID: trackedItem, Quantity: d("10"), UnitID: "pcs", UnitCost: d("4")}},
		Payments:    []dto.PaymentRequest{{Method: domain.PaymentCash, Amount: d("15")}},
	}, managerID)
	s.Require().NoError(err)

	s.assertDecimal("40", purchase.Total, "purchase total")
	s.assertBalancedJournal(purchase.JournalID)
	s.assertDecimal("40", s.balance("Inventory"), "inventory")
	s.assertDecimal("-15", s.balance("Cash"), "cash paid out")
	s.assertDecimal("25", s.balance("Accounts Payable"), "payable")
	s.assertDecimal("10", s.stockQty(), "received")

	item, err := s.store.Repositories().ItemRepo.FindItemByID(s.ctx, bizID, trackedItem)
	s.Require().NoError(err)
	s.assertDecimal("4", item.CostPrice, "cost price updated")
}

func (s *ServicesTestSuite) TestPurchaseOverpaymentRejected() {
	_, err := s.svc.Purchase.CreatePurchase(s.ctx, bizID, dto.CreatePurchaseRequest{
		WarehouseID: whID,
		Items:       []dto.PurchaseItemRequest{{ItemID: trackedItem, Quantity: d("1"), UnitID: "pcs", UnitCost: d("4")}},
		Payments:    []dto.PaymentRequest{{Method: domain.PaymentCash, Amount: d("5")}},
	}, managerID)
	s.ErrorIs(err, apperrors.ErrPolicyViolation)
	s.assertDecimal("0", s.balance("Inventory"), "nothing posted")
}

func (s *ServicesTestSuite) TestAdjustmentOutPostsCost() {
	s.stockIn("10", "", nil)

	adj, err := s.svc.Adjustment.CreateAdjustment(s.ctx, bizID, dto.CreateAdjustmentRequest{
		ItemID: trackedItem, WarehouseID: whID, Quantity: d("2"), Type: domain.AdjustmentOut, Reason: "breakage",
	}, managerID)
	s.Require().NoError(err)
	s.assertDecimal("10", adj.Value, "two units at cost 5")
	s.assertBalancedJournal(adj.JournalID)
	s.assertDecimal("8", s.stockQty(), "stock written off")
}

func (s *ServicesTestSuite) TestAdjustmentWithZeroValueSkipsJournal() {
	adj, err := s.svc.Adjustment.CreateAdjustment(s.ctx, bizID, dto.CreateAdjustmentRequest{
		ItemID: trackedItem, WarehouseID: whID, Quantity: d("1"), Type: domain.AdjustmentIn, Value: dp("0"),
	}, managerID)
	s.Require().NoError(err)
	s.Empty(adj.JournalID)
	s.assertDecimal("1", s.stockQty(), "stock added")
}

func (s *ServicesTestSuite) TestPostJournalRejectsUnbalancedEntry() {
	cash, err := s.store.Repositories().AccountRepo.FindAccountByName(s.ctx, bizID, "Cash")
	s.Require().NoError(err)
	sales, err := s.store.Repositories().AccountRepo.FindAccountByName(s.ctx, bizID, "Sales")
	s.Require().NoError(err)

	_, err = s.svc.Ledger.PostJournal(s.ctx, domain.JournalEntry{
		BusinessID: bizID,
		Lines: []domain.JournalLine{
			{AccountID: cash.AccountID, Debit: d("10"), Credit: decimal.Zero},
			{AccountID: sales.AccountID, Debit: decimal.Zero, Credit: d("9")},
		},
		AuditFields: domain.AuditFields{CreatedBy: managerID},
	})
	s.ErrorIs(err, apperrors.ErrJournalUnbalanced)

	posted, err := s.svc.Ledger.PostJournal(s.ctx, domain.JournalEntry{
		BusinessID:    bizID,
		ReferenceType: domain.RefManual,
		Lines: []domain.JournalLine{
			{AccountID: cash.AccountID, Debit: d("10"), Credit: decimal.Zero},
			{AccountID: sales.AccountID, Debit: decimal.Zero, Credit: d("10")},
		},
		AuditFields: domain.AuditFields{CreatedBy: managerID},
	})
	s.Require().NoError(err)
	s.assertDecimal("10", posted.Amount, "entry amount")
	s.assertDecimal("10", s.balance("Cash"), "cash")
	s.assertDecimal("10", s.balance("Sales"), "sales")
}

func (s *ServicesTestSuite) TestDayKeysAreSingleUseAndOperationBound() {
	openKey, err := s.svc.System.GenerateKey(s.ctx, bizID, dto.GenerateKeyRequest{Operation: domain.OperationDayOpen, AssigneeID: userID}, managerID)
	s.Require().NoError(err)

	day, err := s.svc.System.OpenDay(s.ctx, bizID, userID, dto.DayTransitionRequest{Keys: []string{openKey.Code}})
	s.Require().NoError(err)
	s.Equal(domain.DayOpen, day.Status)

	open, err := s.svc.System.IsDayOpen(s.ctx, bizID)
	s.Require().NoError(err)
	s.True(open)

	_, err = s.svc.System.CloseDay(s.ctx, bizID, userID, dto.DayTransitionRequest{Keys: []string{openKey.Code}})
	s.ErrorIs(err, apperrors.ErrKey)

	closeKey, err := s.svc.System.GenerateKey(s.ctx, bizID, dto.GenerateKeyRequest{Operation: domain.OperationDayClose, AssigneeID: userID}, managerID)
	s.Require().NoError(err)
	closed, err := s.svc.System.CloseDay(s.ctx, bizID, userID, dto.DayTransitionRequest{Keys: []string{closeKey.Code}})
	s.Require().NoError(err)
	s.Equal(domain.DayClosed, closed.Status)
	s.Equal(day.DayID, closed.DayID)

	current, err := s.svc.System.CurrentDay(s.ctx, bizID)
	s.Require().NoError(err)
	s.Nil(current)
}

func (s *ServicesTestSuite) TestOpenDayTwiceRejectedAndKeyNotConsumed() {
	first, err := s.svc.System.GenerateKey(s.ctx, bizID, dto.GenerateKeyRequest{Operation: domain.OperationDayOpen, AssigneeID: userID}, managerID)
	s.Require().NoError(err)
	_, err = s.svc.System.OpenDay(s.ctx, bizID, userID, dto.DayTransitionRequest{Keys: []string{first.Code}})
	s.Require().NoError(err)

	second, err := s.svc.System.GenerateKey(s.ctx, bizID, dto.GenerateKeyRequest{Operation: domain.OperationDayOpen, AssigneeID: userID}, managerID)
	s.Require().NoError(err)
	_, err = s.svc.System.OpenDay(s.ctx, bizID, userID, dto.DayTransitionRequest{Keys: []string{second.Code}})
	s.ErrorIs(err, apperrors.ErrDayAlreadyOpen)

	keys, err := s.store.Repositories().SystemRepo.FindKeysByCodesForUpdate(s.ctx, bizID, []string{second.Code})
	s.Require().NoError(err)
	s.Require().Len(keys, 1)
	s.False(keys[0].Used)
}

func (s *ServicesTestSuite) TestCloseWithoutOpenDay() {
	key, err := s.svc.System.GenerateKey(s.ctx, bizID, dto.GenerateKeyRequest{Operation: domain.OperationDayClose, AssigneeID: userID}, managerID)
	s.Require().NoError(err)
	_, err = s.svc.System.CloseDay(s.ctx, bizID, userID, dto.DayTransitionRequest{Keys: []string{key.Code}})
	s.ErrorIs(err, apperrors.ErrDayNotOpen)
}

func (s *ServicesTestSuite) TestResolveConfigIsStableAndLayered() {
	first, err := s.svc.Config.ResolveConfig(s.ctx, bizID)
	s.Require().NoError(err)
	second, err := s.svc.Config.ResolveConfig(s.ctx, bizID)
	s.Require().NoError(err)
	s.Equal(first.Tree(), second.Tree())
	s.True(first.FeatureEnabled(domain.FeaturePOSBasic))
	s.False(first.FeatureEnabled(domain.FeatureBatchTracking))

	_, err = s.svc.Config.SetRule(s.ctx, bizID, domain.RuleDiscountMaxPercent, dto.SetRuleRequest{Value: 20}, managerID)
	s.Require().NoError(err)
	allowed, err := s.svc.Rule.EvaluateRule(s.ctx, domain.RuleContext{BusinessID: bizID, UserID: userID, Value: 15}, domain.RuleDiscountMaxPercent)
	s.Require().NoError(err)
	s.True(allowed)

	_, err = s.svc.Config.SetRule(s.ctx, bizID, domain.RuleDiscountMaxPercent, dto.SetRuleRequest{Value: nil}, managerID)
	s.Require().NoError(err)
	allowed, err = s.svc.Rule.EvaluateRule(s.ctx, domain.RuleContext{BusinessID: bizID, UserID: userID, Value: 15}, domain.RuleDiscountMaxPercent)
	s.Require().NoError(err)
	s.False(allowed)

	s.Contains(s.audit.actions(), "SET_RULE")
}

func (s *ServicesTestSuite) TestDisabledFeatureBlocksSales() {
	_, err := s.svc.Config.SetFeature(s.ctx, bizID, domain.FeaturePOSBasic, dto.SetFeatureRequest{Enabled: false}, managerID)
	s.Require().NoError(err)

	_, err = s.svc.Sale.CreateSale(s.ctx, bizID, cashSale(serviceItem, "1", "30", "30"), userID)
	s.ErrorIs(err, apperrors.ErrFeatureDisabled)
}

func (s *ServicesTestSuite) TestUnknownBusinessIsNotFound() {
	_, err := s.svc.Config.ResolveConfig(s.ctx, "nope")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ServicesTestSuite) TestStockAsOf() {
	s.stockIn("5", "", nil)
	cut := time.Now().UTC()
	time.Sleep(2 * time.Millisecond)
	s.stockIn("3", "", nil)

	before, err := s.svc.Inventory.StockAsOf(s.ctx, bizID, whID, trackedItem, cut)
	s.Require().NoError(err)
	s.assertDecimal("5", before.Quantity, "as of cut")

	now, err := s.svc.Inventory.StockAsOf(s.ctx, bizID, whID, trackedItem, time.Now().UTC())
	s.Require().NoError(err)
	s.assertDecimal("8", now.Quantity, "current")
}
