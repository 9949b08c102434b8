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
	"github.com/SscSPs/ledger_engine/internal/utils/codes"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// purchaseService records goods bought from suppliers.
type purchaseService struct {
	BaseService
	uow       portsrepo.UnitOfWork
	config    *configService
	inventory *inventoryService
	ledger    *ledgerService
}

var _ portssvc.PurchaseSvcFacade = (*purchaseService)(nil)

// CreatePurchase implements portssvc.PurchaseSvcFacade.
func (s *purchaseService) CreatePurchase(ctx context.Context, businessID string, req dto.CreatePurchaseRequest, userID string) (*domain.Purchase, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var purchase *domain.Purchase
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

		ref, err := codes.PurchaseReference()
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		purchase = &domain.Purchase{
			PurchaseID:        uuid.NewString(),
			BusinessID:        businessID,
			WarehouseID:       req.WarehouseID,
			ReferenceNumber:   ref,
			SupplierInvoiceNo: req.SupplierInvoiceNo,
			PurchaseDate:      now,
			Subtotal:          decimal.Zero,
			TaxTotal:          decimal.Zero,
			DiscountTotal:     decimal.Zero,
			Total:             decimal.Zero,
			AuditFields:       domain.NewAuditFields(userID, now),
		}

		trackedNet, untrackedNet := decimal.Zero, decimal.Zero
		for _, line := range req.Items {
			pi, err := s.receiveLine(ctx, repos, cfg, purchase, line, userID, now)
			if err != nil {
				return err
			}
			purchase.Items = append(purchase.Items, *pi)
			purchase.Subtotal = purchase.Subtotal.Add(accounting.RoundMoney(pi.UnitCost.Mul(pi.Quantity)))
			purchase.DiscountTotal = purchase.DiscountTotal.Add(pi.DiscountAmount)
			purchase.TaxTotal = purchase.TaxTotal.Add(pi.TaxAmount)
			purchase.Total = purchase.Total.Add(pi.Total)
			if pi.TrackStock {
				trackedNet = trackedNet.Add(pi.NetAmount)
			} else {
				untrackedNet = untrackedNet.Add(pi.NetAmount)
			}
		}

		purchase.Payments = dto.ToPayments(businessID, req.Payments, uuid.NewString)
		purchase.AmountPaid = accounting.RoundMoney(domain.SumPayments(purchase.Payments))
		if purchase.AmountPaid.GreaterThan(purchase.Total) {
			return fmt.Errorf("%w: payments %s exceed purchase total %s", apperrors.ErrPolicyViolation, purchase.AmountPaid.String(), purchase.Total.String())
		}

		postings, err := accounting.PurchasePostings(trackedNet, untrackedNet, purchase.TaxTotal, purchase.Payments)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if len(postings) > 0 {
			entry, err := s.ledger.postPostings(ctx, repos, journalHeader{
				BusinessID:    businessID,
				Description:   "Purchase " + ref,
				ReferenceType: domain.RefPurchase,
				ReferenceID:   purchase.PurchaseID,
				UserID:        userID,
				Now:           now,
			}, postings)
			if err != nil {
				return err
			}
			purchase.JournalID = entry.EntryID
		}

		return repos.PurchaseRepo.SavePurchase(ctx, *purchase)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create purchase", slog.String("warehouse_id", req.WarehouseID))
		return nil, err
	}

	s.LogInfo(ctx, "Purchase created", slog.String("purchase_id", purchase.PurchaseID), slog.String("reference", purchase.ReferenceNumber))
	s.RecordAudit(ctx, domain.AuditEvent{
		BusinessID: businessID, UserID: userID, Module: "purchases", Action: "CREATE_PURCHASE",
		EntityID: purchase.PurchaseID, After: purchase,
	})
	return purchase, nil
}

// receiveLine costs a line and, for stock-tracked items, brings the goods in and updates the item's cost price.
func (s *purchaseService) receiveLine(ctx context.Context, repos portsrepo.RepositoryProvider, cfg domain.EffectiveConfig, purchase *domain.Purchase, line dto.PurchaseItemRequest, userID string, now time.Time) (*domain.PurchaseItem, error) {
	item, err := repos.ItemRepo.FindItemByID(ctx, purchase.BusinessID, line.ItemID)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", line.ItemID, err)
	}

	discount, tax := decimal.Zero, decimal.Zero
	if line.DiscountAmount != nil {
		discount = accounting.RoundMoney(*line.DiscountAmount)
	}
	if line.TaxAmount != nil {
		tax = accounting.RoundMoney(*line.TaxAmount)
	}
	net := accounting.RoundMoney(line.UnitCost.Mul(line.Quantity)).Sub(discount)
	if net.IsNegative() {
		return nil, fmt.Errorf("%w: discount exceeds line cost for %s", apperrors.ErrValidation, item.Name)
	}

	pi := &domain.PurchaseItem{
		PurchaseItemID: uuid.NewString(),
		PurchaseID:     purchase.PurchaseID,
		ItemID:         item.ItemID,
		UnitID:         line.UnitID,
		Quantity:       line.Quantity,
		UnitCost:       line.UnitCost,
		TaxAmount:      tax,
		DiscountAmount: discount,
		NetAmount:      net,
		Total:          net.Add(tax),
		TrackStock:     item.TrackStock,
		BatchNo:        line.BatchNo,
		ExpiryDate:     line.ExpiryDate,
	}
	if !item.TrackStock {
		return pi, nil
	}

	unitCost := line.UnitCost
	change, err := s.inventory.applyStockDelta(ctx, repos, cfg, stockDelta{
		BusinessID:    purchase.BusinessID,
		WarehouseID:   purchase.WarehouseID,
		ItemID:        item.ItemID,
		Quantity:      line.Quantity,
		UnitID:        line.UnitID,
		Type:          domain.MovementIn,
		ReferenceType: domain.RefPurchase,
		ReferenceID:   purchase.ReferenceNumber,
		BatchNo:       line.BatchNo,
		ExpiryDate:    line.ExpiryDate,
		UnitCost:      &unitCost,
		UserID:        userID,
		Now:           now,
	})
	if err != nil {
		return nil, err
	}
	if change.Batch != nil {
		pi.BatchNo = change.Batch.BatchNo
	}

	baseCost := accounting.RoundMoney(change.Cost.Div(change.Movement.Quantity))
	if err := repos.ItemRepo.UpdateItemCostPrice(ctx, purchase.BusinessID, item.ItemID, baseCost, userID, now); err != nil {
		return nil, err
	}
	return pi, nil
}
