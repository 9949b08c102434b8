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
	"github.com/google/uuid"
)

// catalogService maintains items and warehouses.
type catalogService struct {
	BaseService
	uow portsrepo.UnitOfWork
}

var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

// CreateItem implements portssvc.CatalogSvcFacade.
func (s *catalogService) CreateItem(ctx context.Context, businessID string, req dto.CreateItemRequest, userID string) (*domain.Item, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if (req.TaxRate == nil) != (req.TaxType == "") {
		return nil, fmt.Errorf("%w: taxRate and taxType must be given together", apperrors.ErrValidation)
	}

	item := domain.Item{
		ItemID:      uuid.NewString(),
		BusinessID:  businessID,
		Name:        req.Name,
		Kind:        req.Kind,
		TrackStock:  req.Kind == domain.ItemProduct,
		UnitID:      req.UnitID,
		CostPrice:   req.CostPrice,
		SalePrice:   req.SalePrice,
		AuditFields: domain.NewAuditFields(userID, time.Now().UTC()),
	}
	// A service never holds stock whatever the request says.
	if req.TrackStock != nil && req.Kind == domain.ItemProduct {
		item.TrackStock = *req.TrackStock
	}
	if req.TaxRate != nil {
		item.Tax = &domain.TaxRule{Rate: *req.TaxRate, Type: req.TaxType}
	}

	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.BusinessRepo.FindBusinessByID(ctx, businessID); err != nil {
			return fmt.Errorf("business %s: %w", businessID, err)
		}
		if _, err := repos.UnitRepo.FindUnitByID(ctx, businessID, req.UnitID); err != nil {
			return notFoundAs(err, apperrors.ErrValidation, "unknown unit %s", req.UnitID)
		}
		return repos.ItemRepo.SaveItem(ctx, item)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create item", slog.String("name", req.Name))
		return nil, err
	}

	s.RecordAudit(ctx, domain.AuditEvent{
		BusinessID: businessID, UserID: userID, Module: "catalog", Action: "CREATE_ITEM",
		EntityID: item.ItemID, After: item,
	})
	return &item, nil
}

// GetItem implements portssvc.CatalogSvcFacade.
func (s *catalogService) GetItem(ctx context.Context, businessID, itemID string) (*domain.Item, error) {
	return s.uow.Repositories().ItemRepo.FindItemByID(ctx, businessID, itemID)
}

// ListItems implements portssvc.CatalogSvcFacade.
func (s *catalogService) ListItems(ctx context.Context, businessID string) (*dto.ListItemsResponse, error) {
	items, err := s.uow.Repositories().ItemRepo.ListItems(ctx, businessID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list items")
		return nil, err
	}
	return &dto.ListItemsResponse{Items: items}, nil
}

// CreateWarehouse implements portssvc.CatalogSvcFacade.
func (s *catalogService) CreateWarehouse(ctx context.Context, businessID string, req dto.CreateWarehouseRequest, userID string) (*domain.Warehouse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	wh := domain.Warehouse{
		WarehouseID: uuid.NewString(),
		BusinessID:  businessID,
		Name:        req.Name,
		IsActive:    true,
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		if _, err := repos.BusinessRepo.FindBusinessByID(ctx, businessID); err != nil {
			return fmt.Errorf("business %s: %w", businessID, err)
		}
		return repos.BusinessRepo.SaveWarehouse(ctx, wh)
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to create warehouse", slog.String("name", req.Name))
		return nil, err
	}

	s.RecordAudit(ctx, domain.AuditEvent{
		BusinessID: businessID, UserID: userID, Module: "catalog", Action: "CREATE_WAREHOUSE",
		EntityID: wh.WarehouseID, After: wh,
	})
	return &wh, nil
}

// ListWarehouses implements portssvc.CatalogSvcFacade.
func (s *catalogService) ListWarehouses(ctx context.Context, businessID string) (*dto.ListWarehousesResponse, error) {
	warehouses, err := s.uow.Repositories().BusinessRepo.ListWarehouses(ctx, businessID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list warehouses")
		return nil, err
	}
	return &dto.ListWarehousesResponse{Warehouses: warehouses}, nil
}
