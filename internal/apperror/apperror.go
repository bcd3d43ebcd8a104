// Package apperror classifies failures so the HTTP layer can map them to a
// status code without inspecting messages.
package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindBusinessRule
	KindConflict
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFound"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindBusinessRule:
		return "BusinessRuleViolation"
	case KindConflict:
		return "Conflict"
	case KindPersistence:
		return "PersistenceError"
	default:
		return "Unknown"
	}
}

// Machine readable reasons returned to clients next to the message.
const (
	CodeInvalidInput          = "INVALID_INPUT"
	CodeNotFound              = "NOT_FOUND"
	CodeDiscountNotFound      = "DISCOUNT_NOT_FOUND"
	CodeDiscountInactive      = "DISCOUNT_INACTIVE"
	CodeDiscountExpired       = "DISCOUNT_EXPIRED"
	CodeDiscountBelowMinimum  = "DISCOUNT_BELOW_MINIMUM"
	CodeDiscountUsesExhausted = "DISCOUNT_USES_EXHAUSTED"
	CodeNoShippingConfigured  = "NO_SHIPPING_CONFIGURED"
	CodeEmptyCart             = "EMPTY_CART"
	CodeOutOfStock            = "OUT_OF_STOCK"
	CodeInvalidTransition     = "INVALID_TRANSITION"
	CodeDuplicate             = "DUPLICATE"
	CodeIdempotencyReplay     = "IDEMPOTENCY_REPLAY"
	CodeConcurrentUpdate      = "CONCURRENT_UPDATE"
	CodeStoreFailure          = "STORE_FAILURE"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error carrying the same kind and code, so callers can
// compare against the package-level sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, CodeInvalidInput, message)
}

func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

func NotFound(what string) *Error {
	return New(KindNotFound, CodeNotFound, what+" not found")
}

func Persistence(message string, err error) *Error {
	return Wrap(KindPersistence, CodeStoreFailure, message, err)
}

// KindOf returns the kind of the first *Error in err's chain. Errors that
// were never classified count as persistence failures.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistence
}

// CodeOf returns the reason code of the first *Error in err's chain.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeStoreFailure
}
