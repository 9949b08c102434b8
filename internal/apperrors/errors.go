package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrPolicyViolation indicates that a tenant rule or business invariant rejected the operation.
var ErrPolicyViolation = errors.New("policy violation")

// ErrPreconditionFailed indicates that tenant data required by the operation is missing.
var ErrPreconditionFailed = errors.New("precondition failed")

// ErrKey indicates an invalid, used or mismatched approval key.
var ErrKey = errors.New("approval key error")

// ErrConcurrencyConflict is reserved for store-level serialization failures.
var ErrConcurrencyConflict = errors.New("concurrency conflict")

// Specific failures. Each unwraps to its taxonomy kind above.
var (
	ErrInsufficientStock      = newKindError(ErrPolicyViolation, "insufficient stock and negative stock is disallowed")
	ErrDiscountExceedsCap     = newKindError(ErrPolicyViolation, "discount exceeds the configured maximum")
	ErrReturnExceedsRemaining = newKindError(ErrPolicyViolation, "return quantity exceeds remaining quantity")
	ErrRefundMismatch         = newKindError(ErrPolicyViolation, "refund total does not match return total")
	ErrPaymentMismatch        = newKindError(ErrPolicyViolation, "payment total does not match document total")
	ErrFeatureDisabled        = newKindError(ErrPolicyViolation, "feature is disabled for this business")
	ErrDayNotOpen             = newKindError(ErrPolicyViolation, "business day is not open")
	ErrDayAlreadyOpen         = newKindError(ErrPolicyViolation, "business day is already open")
	ErrNotTracked             = newKindError(ErrValidation, "item does not track stock")
	ErrJournalUnbalanced      = newKindError(ErrValidation, "journal entry does not balance")
	ErrJournalAlreadyReversed = newKindError(ErrPolicyViolation, "journal entry has already been reversed")
	ErrJournalIsReversal      = newKindError(ErrPolicyViolation, "a reversing entry cannot itself be reversed")
	ErrAccountMissing         = newKindError(ErrPreconditionFailed, "required account is not provisioned")
	ErrConversionNotFound     = newKindError(ErrPreconditionFailed, "no unit conversion path")
	ErrInvalidKey             = newKindError(ErrKey, "one or more keys are invalid, used or issued for another operation")
)

// kindError is a named failure that belongs to one taxonomy kind.
type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

var kinds = []error{
	ErrValidation,
	ErrNotFound,
	ErrPolicyViolation,
	ErrPreconditionFailed,
	ErrKey,
	ErrConcurrencyConflict,
	ErrDuplicate,
}

// KindOf returns the taxonomy sentinel err belongs to, or nil for unclassified failures.
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// HTTPStatus maps an error to the status code the transport layer should return.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrPolicyViolation:
		return http.StatusUnprocessableEntity
	case ErrPreconditionFailed:
		return http.StatusPreconditionFailed
	case ErrKey:
		return http.StatusForbidden
	case ErrConcurrencyConflict, ErrDuplicate:
		return http.StatusConflict
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
