package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a class of application error. Kinds are part of the
// service contract: callers branch on them and the transport layer maps
// them to status codes.
type Kind string

const (
	// Validation kinds
	KindInvalidName          Kind = "INVALID_NAME"
	KindInvalidEmail         Kind = "INVALID_EMAIL"
	KindInvalidSubject       Kind = "INVALID_SUBJECT"
	KindInvalidAmount        Kind = "INVALID_AMOUNT"
	KindInvalidDate          Kind = "INVALID_DATE"
	KindInvalidDateRange     Kind = "INVALID_DATE_RANGE"
	KindInvalidKind          Kind = "INVALID_KIND"
	KindInvalidPaymentMethod Kind = "INVALID_PAYMENT_METHOD"
	KindInvalidCategoryID    Kind = "INVALID_CATEGORY_ID"
	KindInvalidOwnerID       Kind = "INVALID_OWNER_ID"
	KindInvalidPageSize      Kind = "INVALID_PAGE_SIZE"
	KindInvalidPassword      Kind = "INVALID_PASSWORD"

	// Lookup kinds
	KindNotFound         Kind = "NOT_FOUND"
	KindOwnerNotFound    Kind = "OWNER_NOT_FOUND"
	KindCategoryNotFound Kind = "CATEGORY_NOT_FOUND"
	KindGroupNotFound    Kind = "GROUP_NOT_FOUND"

	// Conflict kinds
	KindDuplicateEmail Kind = "DUPLICATE_EMAIL"
	KindDuplicateName  Kind = "DUPLICATE_NAME"
	KindConflict       Kind = "CONFLICT"

	// Resource kinds
	KindTimeout   Kind = "TIMEOUT"
	KindCancelled Kind = "CANCELLED"

	// Fault kinds
	KindStorageFault Kind = "STORAGE_FAULT"
)

// Error is the application error value. Every fallible operation in the
// ledger core returns either a result or one of these.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// StorageFault wraps an unexpected storage engine error.
func StorageFault(err error) *Error {
	return &Error{Kind: KindStorageFault, Message: "storage engine failure", Err: err}
}

// KindOf extracts the kind from an error chain, or "" when the error does
// not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsNotFound reports whether err is any of the lookup kinds.
func IsNotFound(err error) bool {
	switch KindOf(err) {
	case KindNotFound, KindOwnerNotFound, KindCategoryNotFound, KindGroupNotFound:
		return true
	}
	return false
}

// IsValidation reports whether err is a validation kind (or a list of them).
func IsValidation(err error) bool {
	var list ValidationErrors
	if errors.As(err, &list) {
		return true
	}
	switch KindOf(err) {
	case KindInvalidName, KindInvalidEmail, KindInvalidSubject, KindInvalidAmount,
		KindInvalidDate, KindInvalidDateRange, KindInvalidKind, KindInvalidPaymentMethod,
		KindInvalidCategoryID, KindInvalidOwnerID, KindInvalidPageSize, KindInvalidPassword:
		return true
	}
	return false
}

// ValidationErrors aggregates per-field validation failures so a single
// call can report every violated invariant at once.
type ValidationErrors []*Error

// Error implements the error interface
func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Kinds returns the kinds in order of appearance.
func (v ValidationErrors) Kinds() []Kind {
	kinds := make([]Kind, 0, len(v))
	for _, e := range v {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// OrNil returns the list as an error, or nil when it is empty.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
