package domain

import "time"

// AuditEvent describes one completed mutating operation.
type AuditEvent struct {
	BusinessID string    `json:"businessID"`
	UserID     string    `json:"userID"`
	Module     string    `json:"module"`
	Action     string    `json:"action"`
	EntityID   string    `json:"entityID"`
	Before     any       `json:"before,omitempty"`
	After      any       `json:"after,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
