// Package ports holds outbound interfaces that are not repositories.
package ports

import (
	"context"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// Locker serializes work on one key across every process sharing the backend.
type Locker interface {
	// Obtain blocks until the lock is held or ctx is done. The returned release func is safe to call once.
	Obtain(ctx context.Context, key string) (release func(context.Context) error, err error)
}

// AuditSink receives audit events after an operation commits. Delivery is best effort.
type AuditSink interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}
