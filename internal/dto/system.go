package dto

import "github.com/SscSPs/ledger_engine/internal/core/domain"

// GenerateKeyRequest issues an approval key to a user.
type GenerateKeyRequest struct {
	Operation  domain.OperationType `json:"operation" validate:"required,oneof=DAY_OPEN DAY_CLOSE"`
	AssigneeID string               `json:"assigneeID" validate:"required"`
}

// DayTransitionRequest opens or closes the business day.
type DayTransitionRequest struct {
	Keys []string `json:"keys" validate:"dive,required"`
}

// DayStatusResponse describes the current business day.
type DayStatusResponse struct {
	IsOpen bool               `json:"isOpen"`
	Day    *domain.DayControl `json:"day,omitempty"`
}
