package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/ports"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Audit ports.AuditSink
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// RecordAudit hands an event to the audit sink. Failures are logged and swallowed.
func (s *BaseService) RecordAudit(ctx context.Context, event domain.AuditEvent) {
	if s.Audit == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := s.Audit.Record(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to record audit event",
			slog.String("module", event.Module),
			slog.String("action", event.Action),
			slog.String("entity_id", event.EntityID))
	}
}

// logFailure logs unexpected failures at error level and business rejections at info level.
func (s *BaseService) logFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if apperrors.KindOf(err) == nil {
		s.LogError(ctx, err, msg, keyvals...)
		return
	}
	args := append([]any{slog.String("reason", err.Error())}, keyvals...)
	s.LogInfo(ctx, msg, args...)
}

// notFoundAs maps a repository ErrNotFound onto a more specific error, leaving other errors intact.
func notFoundAs(err error, target error, format string, args ...any) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: %s", target, fmt.Sprintf(format, args...))
	}
	return err
}
