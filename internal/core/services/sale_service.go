package services

import (
	"context"
	"errors"
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
	"github.com/SscSPs/ledger_engine/internal/utils/rules"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// saleService records point-of-sale transactions.
type saleService struct {
	BaseService
	uow       portsrepo.UnitOfWork
	config    *configService
	rules     *ruleService
	inventory *inventoryService
	ledger    *ledgerService
}

var _ portssvc.SaleSvcFacade = (*saleService)(nil)

// CreateSale implements portssvc.SaleSvcFacade.
func (s *saleService) CreateSale(ctx context.Context, businessID string, req dto.CreateSaleRequest, userID string) (*domain.Sale, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var sale *domain.Sale
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		cfg, err := s.config.resolve(ctx, repos, businessID)
		if err != nil {
			return err
		}
		if !cfg.FeatureEnabled(domain.FeaturePOSBasic) {
			return fmt.Errorf("%w: %s", apperrors.ErrFeatureDisabled, domain.FeaturePOSBasic)
		}
		if rules.BoolRule(cfg, domain.RulePOSRequireOpenDay, false) {
			if _, err := repos.SystemRepo.FindOpenDay(ctx, businessID); err != nil {
				return notFoundAs(err, apperrors.ErrDayNotOpen, "sales require an open business day")
			}
		}
		if _, err := repos.BusinessRepo.FindWarehouseByID(ctx, businessID, req.WarehouseID); err != nil {
			return fmt.Errorf("warehouse %s: %w", req.WarehouseID, err)
		}

		invoice, err := codes.InvoiceNumber()
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		sale = &domain.Sale{
			SaleID:        uuid.NewString(),
			BusinessID:    businessID,
			WarehouseID:   req.WarehouseID,
			InvoiceNumber: invoice,
			SaleDate:      now,
			Subtotal:      decimal.Zero,
			TaxTotal:      decimal.Zero,
			DiscountTotal: decimal.Zero,
			Total:         decimal.Zero,
			AuditFields:   domain.NewAuditFields(userID, now),
		}

		for _, line := range req.Items {
			saleItem, err := s.priceLine(ctx, repos, cfg, sale, line, userID, now)
			if err != nil {
				return err
			}
			sale.Items = append(sale.Items, *saleItem)
			sale.Subtotal = sale.Subtotal.Add(saleItem.NetAmount)
			sale.TaxTotal = sale.TaxTotal.Add(saleItem.TaxAmount)
			sale.DiscountTotal = sale.DiscountTotal.Add(saleItem.LineDiscount)
			sale.Total = sale.Total.Add(saleItem.Total)
		}

		sale.Payments = dto.ToPayments(businessID, req.Payments, uuid.NewString)
		paid := accounting.RoundMoney(domain.SumPayments(sale.Payments))
		if !paid.Equal(sale.Total) {
			return fmt.Errorf("%w: paid %s, total %s", apperrors.ErrPaymentMismatch, paid.String(), sale.Total.String())
		}

		postings, err := accounting.SalePostings(sale.Subtotal.Sub(sale.DiscountTotal), sale.TaxTotal, sale.Payments)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if len(postings) > 0 {
			entry, err := s.ledger.postPostings(ctx, repos, journalHeader{
				BusinessID:    businessID,
				Description:   "Sale " + invoice,
				ReferenceType: domain.RefPOS,
				ReferenceID:   sale.SaleID,
				UserID:        userID,
				Now:           now,
			}, postings)
			if err != nil {
				return err
			}
			sale.JournalID = entry.EntryID
		}

		return repos.SaleRepo.SaveSale(ctx, *sale)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create sale", slog.String("warehouse_id", req.WarehouseID))
		return nil, err
	}

	s.LogInfo(ctx, "Sale created", slog.String("sale_id", sale.SaleID), slog.String("invoice", sale.InvoiceNumber), slog.String("total", sale.Total.String()))
	s.RecordAudit(ctx, domain.AuditEvent{
		BusinessID: businessID, UserID: userID, Module: "sales", Action: "CREATE_SALE",
		EntityID: sale.SaleID, After: sale,
	})
	return sale, nil
}

// priceLine authorizes the discount, prices the line and deducts stock for tracked items.
func (s *saleService) priceLine(ctx context.Context, repos portsrepo.RepositoryProvider, cfg domain.EffectiveConfig, sale *domain.Sale, line dto.SaleItemRequest, userID string, now time.Time) (*domain.SaleItem, error) {
	item, err := repos.ItemRepo.FindItemByID(ctx, sale.BusinessID, line.ItemID)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", line.ItemID, err)
	}

	discount := decimal.Zero
	if line.DiscountAmount != nil {
		discount = *line.DiscountAmount
	}
	if discount.IsPositive() {
		pct := accounting.DiscountPercent(discount, line.UnitPrice)
		if !s.rules.evaluate(cfg, domain.RuleDiscountMaxPercent, pct) {
			return nil, fmt.Errorf("%w: %s%% on %s", apperrors.ErrDiscountExceedsCap, pct.StringFixed(2), item.Name)
		}
	}

	price := accounting.PriceLine(line.UnitPrice, line.Quantity, discount, item.Tax)

	if item.Kind == domain.ItemProduct && item.TrackStock {
		_, err := s.inventory.applyStockDelta(ctx, repos, cfg, stockDelta{
			BusinessID:    sale.BusinessID,
			WarehouseID:   sale.WarehouseID,
			ItemID:        item.ItemID,
			Quantity:      line.Quantity,
			UnitID:        line.UnitID,
			Type:          domain.MovementOut,
			ReferenceType: domain.RefPOS,
			ReferenceID:   sale.InvoiceNumber,
			BatchNo:       line.BatchNo,
			UserID:        userID,
			Now:           now,
		})
		if err != nil {
			return nil, err
		}
	}

	return &domain.SaleItem{
		SaleItemID:     uuid.NewString(),
		SaleID:         sale.SaleID,
		ItemID:         item.ItemID,
		UnitID:         line.UnitID,
		Quantity:       line.Quantity,
		UnitPrice:      line.UnitPrice,
		DiscountAmount: discount,
		NetAmount:      price.Net,
		TaxAmount:      price.Tax,
		LineDiscount:   price.LineDiscount,
		Total:          price.Total,
		BatchNo:        line.BatchNo,
	}, nil
}

// GetSale implements portssvc.SaleSvcFacade.
func (s *saleService) GetSale(ctx context.Context, businessID, saleID string) (*domain.Sale, error) {
	sale, err := s.uow.Repositories().SaleRepo.FindSaleByID(ctx, businessID, saleID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load sale", slog.String("sale_id", saleID))
		}
		return nil, err
	}
	return sale, nil
}
