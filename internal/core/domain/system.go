package domain

import (
	"time"
)

// OperationType names the action an approval key authorizes.
type OperationType string

const (
	OperationDayOpen  OperationType = "DAY_OPEN"
	OperationDayClose OperationType = "DAY_CLOSE"
)

// Valid reports whether t is a known operation type.
func (t OperationType) Valid() bool {
	switch t {
	case OperationDayOpen, OperationDayClose:
		return true
	}
	return false
}

// OperationKey is a single-use approval code.
type OperationKey struct {
	KeyID      string        `json:"keyID"`
	BusinessID string        `json:"businessID"`
	Code       string        `json:"code"`
	Operation  OperationType `json:"operation"`
	AssigneeID string        `json:"assigneeID"`
	IssuedBy   string        `json:"issuedBy"`
	IssuedAt   time.Time     `json:"issuedAt"`
	Used       bool          `json:"used"`
	UsedBy     *string       `json:"usedBy,omitempty"`
	UsedAt     *time.Time    `json:"usedAt,omitempty"`
}

// DayStatus is the state of a business day.
type DayStatus string

const (
	DayOpen   DayStatus = "OPEN"
	DayClosed DayStatus = "CLOSED"
)

// DayControl is one business day from opening to closing.
type DayControl struct {
	DayID      string     `json:"dayID"`
	BusinessID string     `json:"businessID"`
	Status     DayStatus  `json:"status"`
	OpenedBy   string     `json:"openedBy"`
	OpenedAt   time.Time  `json:"openedAt"`
	ClosedBy   *string    `json:"closedBy,omitempty"`
	ClosedAt   *time.Time `json:"closedAt,omitempty"`
}
