package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/utils/inventory"
	"github.com/shopspring/decimal"
)

type unitService struct {
	BaseService
	uow portsrepo.UnitOfWork
}

// newUnitService creates a unit conversion service.
func newUnitService(uow portsrepo.UnitOfWork, base BaseService) *unitService {
	return &unitService{BaseService: base, uow: uow}
}

var _ portssvc.UnitSvcFacade = (*unitService)(nil)

// Convert implements portssvc.UnitSvcFacade.
func (s *unitService) Convert(ctx context.Context, businessID string, qty decimal.Decimal, fromUnitID, toUnitID string) (decimal.Decimal, error) {
	return s.convert(ctx, s.uow.Repositories(), businessID, qty, fromUnitID, toUnitID)
}

// convert uses a direct conversion when one is stored and the reciprocal of the reverse one otherwise.
// Converted quantities are rounded to inventory.QuantityPlaces.
func (s *unitService) convert(ctx context.Context, repos portsrepo.RepositoryProvider, businessID string, qty decimal.Decimal, fromUnitID, toUnitID string) (decimal.Decimal, error) {
	if fromUnitID == toUnitID {
		return qty, nil
	}

	direct, err := repos.UnitRepo.FindConversion(ctx, businessID, fromUnitID, toUnitID)
	if err == nil {
		return inventory.RoundQuantity(qty.Mul(direct.Multiplier)), nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return decimal.Zero, err
	}

	reverse, err := repos.UnitRepo.FindConversion(ctx, businessID, toUnitID, fromUnitID)
	if err != nil {
		return decimal.Zero, notFoundAs(err, apperrors.ErrConversionNotFound, "%s to %s", fromUnitID, toUnitID)
	}
	if reverse.Multiplier.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: conversion %s has a zero multiplier", apperrors.ErrValidation, reverse.ConversionID)
	}
	return inventory.RoundQuantity(qty.Div(reverse.Multiplier)), nil
}
