package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/codes"
	"github.com/SscSPs/ledger_engine/internal/utils/inventory"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// inventoryService owns the stock ledger.
type inventoryService struct {
	BaseService
	uow    portsrepo.UnitOfWork
	config *configService
	rules  *ruleService
	units  *unitService
}

func newInventoryService(uow portsrepo.UnitOfWork, config *configService, rules *ruleService, units *unitService, base BaseService) *inventoryService {
	return &inventoryService{BaseService: base, uow: uow, config: config, rules: rules, units: units}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// stockDelta describes one stock mutation. Quantity is unsigned except for ADJUSTMENT,
// and is expressed in UnitID. UnitCost, when set, is per UnitID.
type stockDelta struct {
	BusinessID    string
	WarehouseID   string
	ItemID        string
	Quantity      decimal.Decimal
	UnitID        string
	Type          domain.MovementType
	ReferenceType domain.ReferenceType
	ReferenceID   string
	BatchNo       string
	ExpiryDate    *time.Time
	UnitCost      *decimal.Decimal
	UserID        string
	Now           time.Time
}

// applyStockDelta is the single stock mutation primitive. It runs in the caller's transaction.
func (s *inventoryService) applyStockDelta(ctx context.Context, repos portsrepo.RepositoryProvider, cfg domain.EffectiveConfig, in stockDelta) (*domain.StockChange, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown movement type %q", apperrors.ErrValidation, in.Type)
	}

	item, err := repos.ItemRepo.FindItemByID(ctx, in.BusinessID, in.ItemID)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", in.ItemID, err)
	}
	if item.Kind != domain.ItemProduct || !item.TrackStock {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotTracked, item.Name)
	}

	unitID := in.UnitID
	if unitID == "" {
		unitID = item.UnitID
	}
	baseQty, err := s.units.convert(ctx, repos, in.BusinessID, in.Quantity, unitID, item.UnitID)
	if err != nil {
		return nil, err
	}
	delta := in.Type.SignedDelta(baseQty)
	if delta.IsZero() {
		return nil, fmt.Errorf("%w: stock quantity must not be zero", apperrors.ErrValidation)
	}

	stock, err := repos.StockRepo.LockOrCreateStock(ctx, in.BusinessID, in.WarehouseID, in.ItemID, in.UserID, in.Now)
	if err != nil {
		return nil, err
	}

	allowNegative := s.rules.evaluate(cfg, domain.RuleStockAllowNegative, nil)
	prospective := stock.Quantity.Add(delta)
	if delta.IsNegative() && !allowNegative && prospective.IsNegative() {
		return nil, fmt.Errorf("%w: %s has %s, requested %s", apperrors.ErrInsufficientStock, item.Name, stock.Quantity.String(), delta.Abs().String())
	}

	change := &domain.StockChange{Shortfall: decimal.Zero, Cost: decimal.Zero}
	unitCost := item.CostPrice
	if in.UnitCost != nil {
		unitCost = in.UnitCost.Mul(in.Quantity.Abs()).Div(baseQty.Abs())
	}

	switch {
	case cfg.FeatureEnabled(domain.FeatureBatchTracking) && delta.IsPositive():
		batch, err := s.addBatch(ctx, repos, cfg, stock, in, delta, unitCost)
		if err != nil {
			return nil, err
		}
		change.Batch = batch
		change.Cost = delta.Mul(unitCost)

	case cfg.FeatureEnabled(domain.FeatureBatchTracking):
		batches, err := repos.StockRepo.ListBatchesForUpdate(ctx, stock.StockID)
		if err != nil {
			return nil, err
		}
		// The total check above already enforced stock.allow_negative. A shortfall here is
		// stock held outside any batch (received before batch tracking was switched on) or
		// stock going negative with the rule's consent.
		allocs, shortfall := inventory.PlanConsumption(batches, delta.Abs())
		if shortfall.IsPositive() {
			s.LogWarn(ctx, "Batches do not cover outbound quantity",
				slog.String("item_id", in.ItemID),
				slog.String("warehouse_id", in.WarehouseID),
				slog.String("shortfall", shortfall.String()),
				slog.Bool("negative_allowed", allowNegative))
		}
		if len(allocs) > 0 {
			updates := make(map[string]decimal.Decimal, len(allocs))
			for _, a := range allocs {
				updates[a.BatchID] = a.Remaining
			}
			if err := repos.StockRepo.UpdateBatchQuantities(ctx, updates); err != nil {
				return nil, err
			}
		}
		change.Allocations = allocs
		change.Shortfall = shortfall
		change.Cost = inventory.AllocationCost(allocs).Add(shortfall.Mul(item.CostPrice))

	default:
		change.Cost = delta.Abs().Mul(unitCost)
	}

	if err := repos.StockRepo.UpdateStockQuantity(ctx, stock.StockID, prospective, in.UserID, in.Now); err != nil {
		return nil, err
	}
	stock.Quantity = prospective
	stock.LastUpdatedAt, stock.LastUpdatedBy = in.Now, in.UserID

	movement := domain.StockMovement{
		MovementID:    uuid.NewString(),
		BusinessID:    in.BusinessID,
		WarehouseID:   in.WarehouseID,
		ItemID:        in.ItemID,
		Type:          in.Type,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		Quantity:      delta,
		CreatedAt:     in.Now,
		CreatedBy:     in.UserID,
	}
	if err := repos.StockRepo.SaveMovement(ctx, movement); err != nil {
		return nil, err
	}

	change.Stock = *stock
	change.Movement = movement
	return change, nil
}

func (s *inventoryService) addBatch(ctx context.Context, repos portsrepo.RepositoryProvider, cfg domain.EffectiveConfig, stock *domain.Stock, in stockDelta, qty, unitCost decimal.Decimal) (*domain.StockBatch, error) {
	batchNo := in.BatchNo
	if batchNo == "" {
		batchNo = in.ReferenceID
	}
	if batchNo == "" {
		code, err := codes.BatchCode()
		if err != nil {
			return nil, err
		}
		batchNo = code
	}

	var expiry *time.Time
	if cfg.FeatureEnabled(domain.FeatureExpiryTracking) && in.ExpiryDate != nil {
		e := in.ExpiryDate.UTC()
		expiry = &e
	}

	batch := domain.StockBatch{
		BatchID:    uuid.NewString(),
		StockID:    stock.StockID,
		BusinessID: in.BusinessID,
		BatchNo:    batchNo,
		ExpiryDate: expiry,
		Quantity:   qty,
		UnitCost:   unitCost,
		CreatedAt:  in.Now,
	}
	if err := repos.StockRepo.SaveBatch(ctx, batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

// AdjustStock implements portssvc.InventoryWriterSvc.
func (s *inventoryService) AdjustStock(ctx context.Context, businessID string, req dto.AdjustStockRequest, userID string) (*domain.StockChange, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var change *domain.StockChange
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		cfg, err := s.config.resolve(ctx, repos, businessID)
		if err != nil {
			return err
		}
		if !cfg.FeatureEnabled(domain.FeatureInventory) {
			return fmt.Errorf("%w: %s", apperrors.ErrFeatureDisabled, domain.FeatureInventory)
		}
		if _, err := repos.BusinessRepo.FindWarehouseByID(ctx, businessID, req.WarehouseID); err != nil {
			return fmt.Errorf("warehouse %s: %w", req.WarehouseID, err)
		}
		change, err = s.applyStockDelta(ctx, repos, cfg, stockDelta{
			BusinessID:    businessID,
			WarehouseID:   req.WarehouseID,
			ItemID:        req.ItemID,
			Quantity:      req.Quantity,
			UnitID:        req.UnitID,
			Type:          req.Type,
			ReferenceType: req.ReferenceType,
			ReferenceID:   req.ReferenceID,
			BatchNo:       req.BatchNo,
			ExpiryDate:    req.ExpiryDate,
			UnitCost:      req.UnitCost,
			UserID:        userID,
			Now:           time.Now().UTC(),
		})
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to adjust stock", slog.String("item_id", req.ItemID), slog.String("warehouse_id", req.WarehouseID))
		return nil, err
	}

	s.RecordAudit(ctx, domain.AuditEvent{
		BusinessID: businessID, UserID: userID, Module: "inventory", Action: "ADJUST_STOCK",
		EntityID: change.Movement.MovementID, After: change,
	})
	return change, nil
}

// GetWarehouseStock implements portssvc.InventoryReaderSvc.
func (s *inventoryService) GetWarehouseStock(ctx context.Context, businessID, warehouseID string) ([]domain.Stock, error) {
	repos := s.uow.Repositories()
	if _, err := repos.BusinessRepo.FindWarehouseByID(ctx, businessID, warehouseID); err != nil {
		return nil, fmt.Errorf("warehouse %s: %w", warehouseID, err)
	}
	return repos.StockRepo.ListWarehouseStock(ctx, businessID, warehouseID)
}

// ListMovements implements portssvc.InventoryReaderSvc.
func (s *inventoryService) ListMovements(ctx context.Context, businessID, warehouseID, itemID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	if params.NextToken != nil {
		if _, _, err := pagination.DecodeToken(*params.NextToken); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
	}
	limit := pagination.NormalizeLimit(params.Limit)

	movements, next, err := s.uow.Repositories().StockRepo.ListMovements(ctx, businessID, warehouseID, itemID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list movements", slog.String("item_id", itemID))
		return nil, err
	}
	if movements == nil {
		movements = []domain.StockMovement{}
	}
	return &dto.ListMovementsResponse{Movements: movements, NextToken: next}, nil
}

// StockAsOf implements portssvc.InventoryReaderSvc.
func (s *inventoryService) StockAsOf(ctx context.Context, businessID, warehouseID, itemID string, asOf time.Time) (*dto.StockAsOfResponse, error) {
	qty, err := s.uow.Repositories().StockRepo.SumMovementsUntil(ctx, businessID, warehouseID, itemID, asOf)
	if err != nil {
		return nil, err
	}
	return &dto.StockAsOfResponse{ItemID: itemID, WarehouseID: warehouseID, AsOf: asOf, Quantity: qty}, nil
}
