package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

func (s *ServicesTestSuite) TestSaleWithoutProvisionedAccountsLeavesStock() {
	const (
		otherBiz  = "biz-2"
		otherWh   = "wh-2"
		otherItem = "item-b2-widget"
		otherUnit = "b2-pcs"
	)
	now := time.Now().UTC()
	err := s.store.WithinTx(s.ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if err := repos.BusinessRepo.SaveBusiness(ctx, domain.Business{
			BusinessID: otherBiz, Name: "Unprovisioned", AuditFields: domain.NewAuditFields(managerID, now),
		}); err != nil {
			return err
		}
		if err := repos.BusinessRepo.SaveWarehouse(ctx, domain.Warehouse{
			WarehouseID: otherWh, BusinessID: otherBiz, Name: "Only", IsActive: true,
		}); err != nil {
			return err
		}
		if err := repos.UnitRepo.SaveUnit(ctx, domain.Unit{UnitID: otherUnit, BusinessID: otherBiz, Name: "Piece"}); err != nil {
			return err
		}
		return repos.ItemRepo.SaveItem(ctx, domain.Item{
			ItemID: otherItem, BusinessID: otherBiz, Name: "Widget", Kind: domain.ItemProduct, TrackStock: true,
			UnitID: otherUnit, CostPrice: d("2"), SalePrice: d("10"), AuditFields: domain.NewAuditFields(managerID, now),
		})
	})
	s.Require().NoError(err)

	_, err = s.svc.Inventory.AdjustStock(s.ctx, otherBiz, dto.AdjustStockRequest{
		ItemID: otherItem, WarehouseID: otherWh, Quantity: d("3"), UnitID: otherUnit,
		Type: domain.MovementIn, ReferenceType: domain.RefManual,
	}, managerID)
	s.Require().NoError(err)

	_, err = s.svc.Sale.CreateSale(s.ctx, otherBiz, dto.CreateSaleRequest{
		WarehouseID: otherWh,
		Items:       []dto.SaleItemRequest{{ItemID: otherItem, Quantity: d("1"), UnitID: otherUnit, UnitPrice: d("10")}},
		Payments:    []dto.PaymentRequest{{Method: domain.PaymentCash, Amount: d("10")}},
	}, userID)
	s.ErrorIs(err, apperrors.ErrAccountMissing)
	s.ErrorIs(err, apperrors.ErrPreconditionFailed)

	stock, err := s.store.Repositories().StockRepo.FindStock(s.ctx, otherBiz, otherWh, otherItem)
	s.Require().NoError(err)
	s.assertDecimal("3", stock.Quantity, "stock untouched by failed sale")

	movements, err := s.svc.Inventory.ListMovements(s.ctx, otherBiz, otherWh, otherItem, dto.ListMovementsParams{})
	s.Require().NoError(err)
	s.Len(movements.Movements, 1)
}

func (s *ServicesTestSuite) TestReturnSumsRepeatedSaleLines() {
	s.stockIn("10", "", nil)
	sale, err := s.svc.Sale.CreateSale(s.ctx, bizID, dto.CreateSaleRequest{
		WarehouseID: whID,
		Items: []dto.SaleItemRequest{
			{ItemID: trackedItem, Quantity: d("1"), UnitID: "pcs", UnitPrice: d("50")},
			{ItemID: trackedItem, Quantity: d("1"), UnitID: "pcs", UnitPrice: d("50")},
		},
		Payments: []dto.PaymentRequest{{Method: domain.PaymentCash, Amount: d("110")}},
	}, userID)
	s.Require().NoError(err)
	s.assertDecimal("8", s.stockQty(), "stock after sale")

	ret, err := s.svc.Return.ProcessReturn(s.ctx, bizID, dto.ProcessReturnRequest{
		SaleID:  sale.SaleID,
		Items:   []dto.ReturnItemRequest{{ItemID: trackedItem, Quantity: d("2")}},
		Refunds: []dto.PaymentRequest{{Method: domain.PaymentCash, Amount: d("110")}},
	}, userID)
	s.Require().NoError(err)
	s.assertDecimal("100", ret.NetTotal, "net across both lines")
	s.assertDecimal("10", ret.TaxTotal, "tax across both lines")
	s.assertBalancedJournal(ret.JournalID)

	s.assertDecimal("10", s.stockQty(), "stock restored")
	s.assertDecimal("0", s.balance("Cash"), "cash restored")

	_, err = s.svc.Return.ProcessReturn(s.ctx, bizID, dto.ProcessReturnRequest{
		SaleID:  sale.SaleID,
		Items:   []dto.ReturnItemRequest{{ItemID: trackedItem, Quantity: d("1")}},
		Refunds: []dto.PaymentRequest{{Method: domain.PaymentCash, Amount: d("55")}},
	}, userID)
	s.ErrorIs(err, apperrors.ErrReturnExceedsRemaining)
}

func (s *ServicesTestSuite) TestSalePaymentWithSubCentPrecisionRejected() {
	_, err := s.svc.Sale.CreateSale(s.ctx, bizID, cashSale(serviceItem, "1", "115", "115.00001"), userID)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.assertDecimal("0", s.balance("Cash"), "nothing posted")

	sale, err := s.svc.Sale.CreateSale(s.ctx, bizID, cashSale(serviceItem, "1", "115", "115.0000"), userID)
	s.Require().NoError(err)
	s.assertDecimal("115", sale.Total, "four places accepted")
}
