package services_test

import (
	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

func boolPtr(b bool) *bool { return &b }

func (s *ServicesTestSuite) TestCreateServiceItemNeverTracksStock() {
	item, err := s.svc.Catalog.CreateItem(s.ctx, bizID, dto.CreateItemRequest{
		Name: "Delivery", Kind: domain.ItemService, UnitID: "pcs",
		TrackStock: boolPtr(true), SalePrice: d("5"),
	}, managerID)
	s.Require().NoError(err)
	s.False(item.TrackStock)

	_, err = s.svc.Inventory.AdjustStock(s.ctx, bizID, dto.AdjustStockRequest{
		ItemID: item.ItemID, WarehouseID: whID, Quantity: d("1"), UnitID: "pcs",
		Type: domain.MovementIn, ReferenceType: domain.RefManual,
	}, managerID)
	s.ErrorIs(err, apperrors.ErrNotTracked)
}

func (s *ServicesTestSuite) TestCreateProductItemTracksStockByDefault() {
	item, err := s.svc.Catalog.CreateItem(s.ctx, bizID, dto.CreateItemRequest{
		Name: "Gadget", Kind: domain.ItemProduct, UnitID: "pcs",
		TaxRate: dp("15"), TaxType: domain.TaxExclusive,
		CostPrice: d("4"), SalePrice: d("9"),
	}, managerID)
	s.Require().NoError(err)
	s.True(item.TrackStock)
	s.Require().NotNil(item.Tax)
	s.assertDecimal("15", item.Tax.Rate, "tax rate")

	got, err := s.svc.Catalog.GetItem(s.ctx, bizID, item.ItemID)
	s.Require().NoError(err)
	s.Equal("Gadget", got.Name)

	change, err := s.svc.Inventory.AdjustStock(s.ctx, bizID, dto.AdjustStockRequest{
		ItemID: item.ItemID, WarehouseID: whID, Quantity: d("1"), UnitID: "box",
		Type: domain.MovementIn, ReferenceType: domain.RefManual,
	}, managerID)
	s.Require().NoError(err)
	s.assertDecimal("12", change.Stock.Quantity, "stocked in base unit")

	untracked, err := s.svc.Catalog.CreateItem(s.ctx, bizID, dto.CreateItemRequest{
		Name: "Loose stock", Kind: domain.ItemProduct, UnitID: "pcs", TrackStock: boolPtr(false),
	}, managerID)
	s.Require().NoError(err)
	s.False(untracked.TrackStock)

	s.Contains(s.audit.actions(), "CREATE_ITEM")
}

func (s *ServicesTestSuite) TestCreateItemValidation() {
	_, err := s.svc.Catalog.CreateItem(s.ctx, bizID, dto.CreateItemRequest{
		Name: "Half taxed", Kind: domain.ItemProduct, UnitID: "pcs", TaxRate: dp("5"),
	}, managerID)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Catalog.CreateItem(s.ctx, bizID, dto.CreateItemRequest{
		Name: "No unit", Kind: domain.ItemProduct, UnitID: "crate",
	}, managerID)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Catalog.CreateItem(s.ctx, bizID, dto.CreateItemRequest{
		Name: "Bad kind", Kind: "BUNDLE", UnitID: "pcs",
	}, managerID)
	s.ErrorIs(err, apperrors.ErrValidation)

	list, err := s.svc.Catalog.ListItems(s.ctx, bizID)
	s.Require().NoError(err)
	s.Len(list.Items, 3)
}

func (s *ServicesTestSuite) TestListItemsOrderedByName() {
	list, err := s.svc.Catalog.ListItems(s.ctx, bizID)
	s.Require().NoError(err)
	s.Require().Len(list.Items, 3)
	s.Equal([]string{"Bundle", "Repair", "Widget"}, []string{list.Items[0].Name, list.Items[1].Name, list.Items[2].Name})

	_, err = s.svc.Catalog.GetItem(s.ctx, "biz-other", trackedItem)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *ServicesTestSuite) TestCreateAndListWarehouses() {
	wh, err := s.svc.Catalog.CreateWarehouse(s.ctx, bizID, dto.CreateWarehouseRequest{Name: "Back room"}, managerID)
	s.Require().NoError(err)
	s.True(wh.IsActive)

	list, err := s.svc.Catalog.ListWarehouses(s.ctx, bizID)
	s.Require().NoError(err)
	s.Require().Len(list.Warehouses, 2)
	s.Equal("Back room", list.Warehouses[0].Name)
	s.Equal("Front", list.Warehouses[1].Name)

	_, err = s.svc.Inventory.AdjustStock(s.ctx, bizID, dto.AdjustStockRequest{
		ItemID: trackedItem, WarehouseID: wh.WarehouseID, Quantity: d("3"), UnitID: "pcs",
		Type: domain.MovementIn, ReferenceType: domain.RefManual,
	}, managerID)
	s.Require().NoError(err)
	front, err := s.svc.Inventory.GetWarehouseStock(s.ctx, bizID, whID)
	s.Require().NoError(err)
	s.Empty(front)

	_, err = s.svc.Catalog.CreateWarehouse(s.ctx, bizID, dto.CreateWarehouseRequest{}, managerID)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Contains(s.audit.actions(), "CREATE_WAREHOUSE")
}
