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
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/google/uuid"
)

// adjustmentService records manual stock corrections and their valuation.
type adjustmentService struct {
	BaseService
	uow       portsrepo.UnitOfWork
	config    *configService
	inventory *inventoryService
	ledger    *ledgerService
}

var _ portssvc.AdjustmentSvcFacade = (*adjustmentService)(nil)

// CreateAdjustment implements portssvc.AdjustmentSvcFacade.
func (s *adjustmentService) CreateAdjustment(ctx context.Context, businessID string, req dto.CreateAdjustmentRequest, userID string) (*domain.StockAdjustment, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var adj *domain.StockAdjustment
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
		item, err := repos.ItemRepo.FindItemByID(ctx, businessID, req.ItemID)
		if err != nil {
			return fmt.Errorf("item %s: %w", req.ItemID, err)
		}

		qty := req.Quantity
		if req.Type == domain.AdjustmentOut {
			qty = qty.Neg()
		}

		now := time.Now().UTC()
		adj = &domain.StockAdjustment{
			AdjustmentID: uuid.NewString(),
			BusinessID:   businessID,
			WarehouseID:  req.WarehouseID,
			ItemID:       req.ItemID,
			Type:         req.Type,
			Quantity:     req.Quantity,
			Reason:       req.Reason,
			AdjustedAt:   now,
			AuditFields:  domain.NewAuditFields(userID, now),
		}

		change, err := s.inventory.applyStockDelta(ctx, repos, cfg, stockDelta{
			BusinessID:    businessID,
			WarehouseID:   req.WarehouseID,
			ItemID:        req.ItemID,
			Quantity:      qty,
			UnitID:        item.UnitID,
			Type:          domain.MovementAdjustment,
			ReferenceType: domain.RefAdjustment,
			ReferenceID:   adj.AdjustmentID,
			UserID:        userID,
			Now:           now,
		})
		if err != nil {
			return err
		}

		switch {
		case req.Value != nil:
			adj.Value = *req.Value
		case req.Type == domain.AdjustmentOut:
			adj.Value = change.Cost
		default:
			adj.Value = item.CostPrice.Mul(req.Quantity)
		}
		adj.Value = accounting.RoundMoney(adj.Value)

		if adj.Value.IsPositive() {
			entry, err := s.ledger.postPostings(ctx, repos, journalHeader{
				BusinessID:    businessID,
				Description:   fmt.Sprintf("Stock adjustment %s %s", req.Type, item.Name),
				ReferenceType: domain.RefAdjustment,
				ReferenceID:   adj.AdjustmentID,
				UserID:        userID,
				Now:           now,
			}, accounting.AdjustmentPostings(req.Type, adj.Value))
			if err != nil {
				return err
			}
			adj.JournalID = entry.EntryID
		} else {
			s.LogDebug(ctx, "Adjustment has no value, skipping journal", slog.String("adjustment_id", adj.AdjustmentID))
		}

		return repos.AdjustmentRepo.SaveAdjustment(ctx, *adj)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create adjustment", slog.String("item_id", req.ItemID))
		return nil, err
	}

	s.RecordAudit(ctx, domain.AuditEvent{
		BusinessID: businessID, UserID: userID, Module: "inventory", Action: "CREATE_ADJUSTMENT",
		EntityID: adj.AdjustmentID, After: adj,
	})
	return adj, nil
}
