package services_test

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/repositories/memory"
)

// overrideItemRepo serves a fixed item in place of the stored one.
type overrideItemRepo struct {
	portsrepo.ItemRepositoryFacade
	item domain.Item
}

func (r overrideItemRepo) FindItemByID(ctx context.Context, businessID, itemID string) (*domain.Item, error) {
	if itemID == r.item.ItemID && businessID == r.item.BusinessID {
		item := r.item
		return &item, nil
	}
	return r.ItemRepositoryFacade.FindItemByID(ctx, businessID, itemID)
}

// overrideItemUoW routes every item read through overrideItemRepo.
type overrideItemUoW struct {
	store *memory.Store
	item  domain.Item
}

func (u overrideItemUoW) WithinTx(ctx context.Context, fn portsrepo.TxFunc) error {
	return u.store.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		repos.ItemRepo = overrideItemRepo{ItemRepositoryFacade: repos.ItemRepo, item: u.item}
		return fn(ctx, repos)
	})
}

func (u overrideItemUoW) Repositories() portsrepo.RepositoryProvider {
	repos := u.store.Repositories()
	repos.ItemRepo = overrideItemRepo{ItemRepositoryFacade: repos.ItemRepo, item: u.item}
	return repos
}

func (s *ServicesTestSuite) TestServiceItemNeverMovesStockEvenIfFlaggedTracked() {
	stored, err := s.store.Repositories().ItemRepo.FindItemByID(s.ctx, bizID, serviceItem)
	s.Require().NoError(err)
	flagged := *stored
	flagged.TrackStock = true

	svc := services.NewServiceContainer(overrideItemUoW{store: s.store, item: flagged})
	_, err = svc.Inventory.AdjustStock(s.ctx, bizID, dto.AdjustStockRequest{
		ItemID: serviceItem, WarehouseID: whID, Quantity: d("1"), UnitID: "pcs",
		Type: domain.MovementIn, ReferenceType: domain.RefManual,
	}, managerID)
	s.ErrorIs(err, apperrors.ErrNotTracked)

	stock, err := s.svc.Inventory.GetWarehouseStock(s.ctx, bizID, whID)
	s.Require().NoError(err)
	s.Empty(stock)
}

func (s *ServicesTestSuite) TestStockReceivedBeforeBatchTrackingCanBeSold() {
	s.stockIn("10", "", nil)

	_, err := s.svc.Config.SetFeature(s.ctx, bizID, domain.FeatureBatchTracking, dto.SetFeatureRequest{Enabled: true}, managerID)
	s.Require().NoError(err)

	out, err := s.svc.Inventory.AdjustStock(s.ctx, bizID, dto.AdjustStockRequest{
		ItemID: trackedItem, WarehouseID: whID, Quantity: d("4"), UnitID: "pcs",
		Type: domain.MovementOut, ReferenceType: domain.RefManual,
	}, managerID)
	s.Require().NoError(err)
	s.Empty(out.Allocations)
	s.assertDecimal("4", out.Shortfall, "unbatched quantity")
	s.assertDecimal("20", out.Cost, "unbatched quantity at item cost")
	s.assertDecimal("6", s.stockQty(), "stock after out")

	sale, err := s.svc.Sale.CreateSale(s.ctx, bizID, cashSale(trackedItem, "6", "50", "330"), userID)
	s.Require().NoError(err)
	s.assertBalancedJournal(sale.JournalID)
	s.assertDecimal("0", s.stockQty(), "stock sold out")
}

func (s *ServicesTestSuite) TestConvertedQuantitiesRoundToSixPlaces() {
	oneBox, err := s.svc.Unit.Convert(s.ctx, bizID, d("1"), "pcs", "box")
	s.Require().NoError(err)
	s.Equal("0.083333", oneBox.String())

	tenPieces, err := s.svc.Unit.Convert(s.ctx, bizID, d("10"), "pcs", "box")
	s.Require().NoError(err)
	s.Equal("0.833333", tenPieces.String())

	pcs, err := s.svc.Unit.Convert(s.ctx, bizID, d("0.5"), "box", "pcs")
	s.Require().NoError(err)
	s.Equal("6", pcs.String())
}
