// Package audit holds audit sinks that need no external infrastructure.
package audit

import (
	"context"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/ports"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// LogSink writes audit events to the request logger.
type LogSink struct{}

var _ ports.AuditSink = LogSink{}

// Record implements ports.AuditSink.
func (LogSink) Record(ctx context.Context, event domain.AuditEvent) error {
	middleware.GetLoggerFromCtx(ctx).Info("Audit event",
		slog.String("business_id", event.BusinessID),
		slog.String("user_id", event.UserID),
		slog.String("module", event.Module),
		slog.String("action", event.Action),
		slog.String("entity_id", event.EntityID),
		slog.Time("occurred_at", event.OccurredAt),
	)
	return nil
}
