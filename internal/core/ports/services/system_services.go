package services

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/dto"
)

// ApprovalKeySvc issues single-use approval keys.
type ApprovalKeySvc interface {
	GenerateKey(ctx context.Context, businessID string, req dto.GenerateKeyRequest, issuedBy string) (*domain.OperationKey, error)
}

// DayControlSvc drives the business-day state machine.
type DayControlSvc interface {
	OpenDay(ctx context.Context, businessID, userID string, req dto.DayTransitionRequest) (*domain.DayControl, error)
	CloseDay(ctx context.Context, businessID, userID string, req dto.DayTransitionRequest) (*domain.DayControl, error)
	IsDayOpen(ctx context.Context, businessID string) (bool, error)
	// CurrentDay returns the open day, or nil when the business is closed.
	CurrentDay(ctx context.Context, businessID string) (*domain.DayControl, error)
}

// SystemSvcFacade combines all system-related service interfaces
type SystemSvcFacade interface {
	ApprovalKeySvc
	DayControlSvc
}
