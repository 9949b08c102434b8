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
	"github.com/shopspring/decimal"
)

// returnService reverses sales.
type returnService struct {
	BaseService
	uow       portsrepo.UnitOfWork
	config    *configService
	inventory *inventoryService
	ledger    *ledgerService
}

var _ portssvc.ReturnSvcFacade = (*returnService)(nil)

// ProcessReturn implements portssvc.ReturnSvcFacade.
func (s *returnService) ProcessReturn(ctx context.Context, businessID string, req dto.ProcessReturnRequest, userID string) (*domain.SaleReturn, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var ret *domain.SaleReturn
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		sale, err := repos.SaleRepo.FindSaleByID(ctx, businessID, req.SaleID)
		if err != nil {
			return fmt.Errorf("sale %s: %w", req.SaleID, err)
		}
		cfg, err := s.config.resolve(ctx, repos, businessID)
		if err != nil {
			return err
		}
		returned, err := repos.ReturnRepo.ReturnedQuantities(ctx, businessID, sale.SaleID)
		if err != nil {
			return err
		}
		if returned == nil {
			returned = make(map[string]decimal.Decimal)
		}

		now := time.Now().UTC()
		ret = &domain.SaleReturn{
			ReturnID:    uuid.NewString(),
			BusinessID:  businessID,
			SaleID:      sale.SaleID,
			WarehouseID: sale.WarehouseID,
			ReturnDate:  now,
			Reason:      req.Reason,
			NetTotal:    decimal.Zero,
			TaxTotal:    decimal.Zero,
			Total:       decimal.Zero,
			AuditFields: domain.NewAuditFields(userID, now),
		}

		sold, err := s.soldLines(ctx, repos, sale)
		if err != nil {
			return err
		}

		for _, r := range req.Items {
			line, ok := sold[r.ItemID]
			if !ok {
				return fmt.Errorf("%w: item %s is not on sale %s", apperrors.ErrValidation, r.ItemID, sale.InvoiceNumber)
			}
			remaining := line.Quantity.Sub(returned[r.ItemID])
			if r.Quantity.GreaterThan(remaining) {
				return fmt.Errorf("%w: item %s has %s left to return, requested %s", apperrors.ErrReturnExceedsRemaining, r.ItemID, remaining.String(), r.Quantity.String())
			}
			returned[r.ItemID] = returned[r.ItemID].Add(r.Quantity)

			net := accounting.Prorate(line.Net, r.Quantity, line.Quantity)
			tax := accounting.Prorate(line.Tax, r.Quantity, line.Quantity)
			ri := domain.ReturnItem{
				ReturnItemID: uuid.NewString(),
				ReturnID:     ret.ReturnID,
				ItemID:       r.ItemID,
				Quantity:     r.Quantity,
				NetAmount:    net,
				TaxAmount:    tax,
				Total:        net.Add(tax),
			}

			item, err := repos.ItemRepo.FindItemByID(ctx, businessID, r.ItemID)
			if err != nil {
				return fmt.Errorf("item %s: %w", r.ItemID, err)
			}
			if item.Kind == domain.ItemProduct && item.TrackStock {
				if _, err := s.inventory.applyStockDelta(ctx, repos, cfg, stockDelta{
					BusinessID:    businessID,
					WarehouseID:   sale.WarehouseID,
					ItemID:        r.ItemID,
					Quantity:      r.Quantity,
					UnitID:        line.UnitID,
					Type:          domain.MovementReturn,
					ReferenceType: domain.RefReturn,
					ReferenceID:   ret.ReturnID,
					UserID:        userID,
					Now:           now,
				}); err != nil {
					return err
				}
			}

			ret.Items = append(ret.Items, ri)
			ret.NetTotal = ret.NetTotal.Add(net)
			ret.TaxTotal = ret.TaxTotal.Add(tax)
			ret.Total = ret.Total.Add(ri.Total)
		}

		ret.Refunds = dto.ToPayments(businessID, req.Refunds, uuid.NewString)
		refunded := accounting.RoundMoney(domain.SumPayments(ret.Refunds))
		if !refunded.Equal(ret.Total) {
			return fmt.Errorf("%w: refunded %s, return total %s", apperrors.ErrRefundMismatch, refunded.String(), ret.Total.String())
		}

		postings, err := accounting.ReturnPostings(ret.NetTotal, ret.TaxTotal, ret.Refunds)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if len(postings) > 0 {
			entry, err := s.ledger.postPostings(ctx, repos, journalHeader{
				BusinessID:    businessID,
				Description:   "Return for " + sale.InvoiceNumber,
				ReferenceType: domain.RefReturn,
				ReferenceID:   ret.ReturnID,
				UserID:        userID,
				Now:           now,
			}, postings)
			if err != nil {
				return err
			}
			ret.JournalID = entry.EntryID
		}

		return repos.ReturnRepo.SaveReturn(ctx, *ret)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to process return", slog.String("sale_id", req.SaleID))
		return nil, err
	}

	s.LogInfo(ctx, "Return processed", slog.String("return_id", ret.ReturnID), slog.String("sale_id", ret.SaleID))
	s.RecordAudit(ctx, domain.AuditEvent{
		BusinessID: businessID, UserID: userID, Module: "returns", Action: "PROCESS_RETURN",
		EntityID: ret.ReturnID, After: ret,
	})
	return ret, nil
}

// soldLine is every line of one item on a sale folded together, in the unit of the item's first line.
type soldLine struct {
	UnitID   string
	Quantity decimal.Decimal
	Net      decimal.Decimal // after line discount
	Tax      decimal.Decimal
}

func (s *returnService) soldLines(ctx context.Context, repos portsrepo.RepositoryProvider, sale *domain.Sale) (map[string]soldLine, error) {
	out := make(map[string]soldLine, len(sale.Items))
	for _, l := range sale.Items {
		agg, ok := out[l.ItemID]
		if !ok {
			agg = soldLine{UnitID: l.UnitID, Quantity: decimal.Zero, Net: decimal.Zero, Tax: decimal.Zero}
		}
		qty, err := s.inventory.units.convert(ctx, repos, sale.BusinessID, l.Quantity, l.UnitID, agg.UnitID)
		if err != nil {
			return nil, err
		}
		agg.Quantity = agg.Quantity.Add(qty)
		agg.Net = agg.Net.Add(l.NetAmount.Sub(l.LineDiscount))
		agg.Tax = agg.Tax.Add(l.TaxAmount)
		out[l.ItemID] = agg
	}
	return out, nil
}
