package domain

import (
	"fmt"
)

// Kind classifies an application error for the HTTP layer.
type Kind string

const (
	KindValidation         Kind = "ValidationError"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindInvalidDiscount    Kind = "InvalidDiscount"
	KindInvalidQuantity    Kind = "InvalidQuantity"
	KindOutOfStock         Kind = "OutOfStock"
	KindEmptyCart          Kind = "EmptyCart"
	KindInvalidTransition  Kind = "InvalidTransition"
	KindNotFound           Kind = "NotFound"
	KindConflict           Kind = "Conflict"
)

// Error is a typed application error with a machine-readable kind and a
// message that is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Is matches any *Error of the same kind, so callers can test against the
// sentinels below regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation = &Error{Kind: KindValidation, Message: "invalid input"}
	// ErrInvalidCredentials is returned for every authentication failure so
	// that callers cannot tell unknown emails from wrong passwords.
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid email or password"}
	ErrInvalidDiscount    = &Error{Kind: KindInvalidDiscount, Message: "discount must be between 0 and 100"}
	ErrInvalidQuantity    = &Error{Kind: KindInvalidQuantity, Message: "quantity must be at least 1"}
	ErrOutOfStock         = &Error{Kind: KindOutOfStock, Message: "product is out of stock"}
	ErrEmptyCart          = &Error{Kind: KindEmptyCart, Message: "cart has no items"}
	ErrInvalidTransition  = &Error{Kind: KindInvalidTransition, Message: "invalid order status transition"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "not found"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "already exists"}
)

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransitionf(format string, args ...any) error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}
