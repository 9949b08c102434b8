package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// SystemRepositoryFacade covers approval keys and business-day state.
type SystemRepositoryFacade interface {
	// SaveKey persists a new key. A code already issued in the business yields apperrors.ErrDuplicate.
	SaveKey(ctx context.Context, key domain.OperationKey) error

	// FindKeysByCodesForUpdate returns the keys matching codes, locked for update. Unknown codes are omitted.
	FindKeysByCodesForUpdate(ctx context.Context, businessID string, codes []string) ([]domain.OperationKey, error)

	// MarkKeysUsed flips the used flag of the given keys.
	MarkKeysUsed(ctx context.Context, keyIDs []string, userID string, now time.Time) error

	// FindOpenDay returns the open day of a business, or apperrors.ErrNotFound.
	FindOpenDay(ctx context.Context, businessID string) (*domain.DayControl, error)

	// SaveDay inserts a new open day. A second open day yields apperrors.ErrDayAlreadyOpen.
	SaveDay(ctx context.Context, day domain.DayControl) error

	// CloseDay marks an open day closed.
	CloseDay(ctx context.Context, dayID, userID string, now time.Time) error
}
