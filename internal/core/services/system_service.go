package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/core/ports"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/utils/codes"
	"github.com/SscSPs/ledger_engine/internal/utils/rules"
	"github.com/google/uuid"
)

const maxKeyAttempts = 5

// systemService issues approval keys and drives the business day.
type systemService struct {
	BaseService
	uow    portsrepo.UnitOfWork
	config *configService
	locker ports.Locker
}

var _ portssvc.SystemSvcFacade = (*systemService)(nil)

// DayLockKey is the lock serializing day transitions of one business.
func DayLockKey(businessID string) string {
	return "lock:day:" + businessID
}

// GenerateKey implements portssvc.ApprovalKeySvc.
func (s *systemService) GenerateKey(ctx context.Context, businessID string, req dto.GenerateKeyRequest, issuedBy string) (*domain.OperationKey, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.uow.Repositories().BusinessRepo.FindBusinessByID(ctx, businessID); err != nil {
		return nil, fmt.Errorf("business %s: %w", businessID, err)
	}

	var key *domain.OperationKey
	for attempt := 1; attempt <= maxKeyAttempts; attempt++ {
		code, err := codes.ApprovalKey()
		if err != nil {
			return nil, err
		}
		candidate := domain.OperationKey{
			KeyID:      uuid.NewString(),
			BusinessID: businessID,
			Code:       code,
			Operation:  req.Operation,
			AssigneeID: req.AssigneeID,
			IssuedBy:   issuedBy,
			IssuedAt:   time.Now().UTC(),
		}
		err = s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
			return repos.SystemRepo.SaveKey(ctx, candidate)
		})
		if err == nil {
			key = &candidate
			break
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save approval key")
			return nil, err
		}
		s.LogDebug(ctx, "Approval key collision, retrying", slog.Int("attempt", attempt))
	}
	if key == nil {
		return nil, fmt.Errorf("%w: could not generate a unique key", apperrors.ErrConcurrencyConflict)
	}

	s.RecordAudit(ctx, domain.AuditEvent{
		BusinessID: businessID, UserID: issuedBy, Module: "system", Action: "GENERATE_KEY",
		EntityID: key.KeyID, After: map[string]any{"operation": key.Operation, "assigneeID": key.AssigneeID},
	})
	return key, nil
}

// OpenDay implements portssvc.DayControlSvc.
func (s *systemService) OpenDay(ctx context.Context, businessID, userID string, req dto.DayTransitionRequest) (*domain.DayControl, error) {
	return s.transition(ctx, businessID, userID, domain.OperationDayOpen, req)
}

// CloseDay implements portssvc.DayControlSvc.
func (s *systemService) CloseDay(ctx context.Context, businessID, userID string, req dto.DayTransitionRequest) (*domain.DayControl, error) {
	return s.transition(ctx, businessID, userID, domain.OperationDayClose, req)
}

func (s *systemService) transition(ctx context.Context, businessID, userID string, op domain.OperationType, req dto.DayTransitionRequest) (*domain.DayControl, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	release, err := s.locker.Obtain(ctx, DayLockKey(businessID))
	if err != nil {
		s.LogError(ctx, err, "Failed to obtain day lock")
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.LogWarn(ctx, "Failed to release day lock", slog.String("error", err.Error()))
		}
	}()

	var day *domain.DayControl
	err = s.uow.WithinTx(ctx, func(ctx context.Context, repos portsrepo.RepositoryProvider) error {
		cfg, err := s.config.resolve(ctx, repos, businessID)
		if err != nil {
			return err
		}
		keys, err := s.consumeKeys(ctx, repos, cfg, businessID, userID, op, req.Keys)
		if err != nil {
			return err
		}

		open, err := repos.SystemRepo.FindOpenDay(ctx, businessID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		now := time.Now().UTC()
		switch op {
		case domain.OperationDayOpen:
			if open != nil {
				return fmt.Errorf("%w: opened at %s", apperrors.ErrDayAlreadyOpen, open.OpenedAt.Format(time.RFC3339))
			}
			day = &domain.DayControl{
				DayID:      uuid.NewString(),
				BusinessID: businessID,
				Status:     domain.DayOpen,
				OpenedBy:   userID,
				OpenedAt:   now,
			}
			if err := repos.SystemRepo.SaveDay(ctx, *day); err != nil {
				return err
			}
		case domain.OperationDayClose:
			if open == nil {
				return apperrors.ErrDayNotOpen
			}
			if err := repos.SystemRepo.CloseDay(ctx, open.DayID, userID, now); err != nil {
				return err
			}
			closed := *open
			closed.Status = domain.DayClosed
			closed.ClosedBy, closed.ClosedAt = &userID, &now
			day = &closed
		default:
			return fmt.Errorf("%w: unknown operation %q", apperrors.ErrValidation, op)
		}

		return repos.SystemRepo.MarkKeysUsed(ctx, keys, userID, now)
	})
	if err != nil {
		s.logFailure(ctx, err, "Day transition failed", slog.String("operation", string(op)))
		return nil, err
	}

	s.LogInfo(ctx, "Day transition completed", slog.String("operation", string(op)), slog.String("day_id", day.DayID))
	s.RecordAudit(ctx, domain.AuditEvent{
		BusinessID: businessID, UserID: userID, Module: "system", Action: string(op),
		EntityID: day.DayID, After: day,
	})
	return day, nil
}

// consumeKeys checks the supplied codes authorize op and returns the IDs of the keys to mark used.
func (s *systemService) consumeKeys(ctx context.Context, repos portsrepo.RepositoryProvider, cfg domain.EffectiveConfig, businessID, userID string, op domain.OperationType, raw []string) ([]string, error) {
	required := rules.IntRule(cfg, domain.RuleDayRequiredKeys, 1)
	if required < 1 {
		required = 1
	}

	codesSeen := make(map[string]bool, len(raw))
	normalized := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.ToUpper(strings.TrimSpace(c))
		if codesSeen[c] {
			return nil, fmt.Errorf("%w: duplicate key supplied", apperrors.ErrInvalidKey)
		}
		codesSeen[c] = true
		normalized = append(normalized, c)
	}
	if len(normalized) < required {
		return nil, fmt.Errorf("%w: %d keys required, %d supplied", apperrors.ErrInvalidKey, required, len(normalized))
	}

	keys, err := repos.SystemRepo.FindKeysByCodesForUpdate(ctx, businessID, normalized)
	if err != nil {
		return nil, err
	}
	if len(keys) != len(normalized) {
		return nil, fmt.Errorf("%w: unknown key", apperrors.ErrInvalidKey)
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		if k.Used {
			return nil, fmt.Errorf("%w: key already used", apperrors.ErrInvalidKey)
		}
		if k.Operation != op {
			return nil, fmt.Errorf("%w: key issued for %s", apperrors.ErrInvalidKey, k.Operation)
		}
		ids = append(ids, k.KeyID)
	}
	s.LogDebug(ctx, "Approval keys accepted", slog.Int("count", len(ids)), slog.String("user_id", userID))
	return ids, nil
}

// IsDayOpen implements portssvc.DayControlSvc.
func (s *systemService) IsDayOpen(ctx context.Context, businessID string) (bool, error) {
	day, err := s.CurrentDay(ctx, businessID)
	if err != nil {
		return false, err
	}
	return day != nil, nil
}

// CurrentDay implements portssvc.DayControlSvc.
func (s *systemService) CurrentDay(ctx context.Context, businessID string) (*domain.DayControl, error) {
	repos := s.uow.Repositories()
	if _, err := repos.BusinessRepo.FindBusinessByID(ctx, businessID); err != nil {
		return nil, fmt.Errorf("business %s: %w", businessID, err)
	}
	day, err := repos.SystemRepo.FindOpenDay(ctx, businessID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, nil
	}
	return day, err
}
