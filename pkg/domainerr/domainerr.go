// Package domainerr defines the business-rule error taxonomy shared by every
// bounded context. A rule violation carries a machine-checkable Kind and a
// human-readable detail; callers branch on the kind with errors.Is.
package domainerr

import (
	"errors"
	"fmt"
)

// Kind classifies a business-rule failure.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindNotFound
	KindConflict
	KindCapacityExceeded
	KindAllocationFailed
)

// Kind sentinels. errors.Is(err, ErrConflict) matches every *Error of that kind.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrAllocationFailed = errors.New("allocation failed")
)

// String returns the snake_case name used in API responses.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindCapacityExceeded:
		return "capacity_exceeded"
	case KindAllocationFailed:
		return "allocation_failed"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindNotFound:
		return ErrNotFound
	case KindConflict:
		return ErrConflict
	case KindCapacityExceeded:
		return ErrCapacityExceeded
	case KindAllocationFailed:
		return ErrAllocationFailed
	default:
		return nil
	}
}

// Error is a business-rule violation.
type Error struct {
	Kind   Kind
	Detail string
	cause  error
}

// New returns an *Error of the given kind. Context packages use it to declare
// their sentinel errors.
func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// Violation returns a new *Error with the kind of sentinel and a formatted
// detail. The result unwraps to sentinel, so errors.Is matches both the
// context sentinel and the kind sentinel.
func Violation(sentinel *Error, format string, args ...any) *Error {
	return &Error{
		Kind:   sentinel.Kind,
		Detail: fmt.Sprintf(format, args...),
		cause:  sentinel,
	}
}

// Wrap attaches a detail to an underlying cause, keeping the sentinel's kind.
// Used where a value-object constructor already produced a descriptive error.
func Wrap(sentinel *Error, cause error) *Error {
	return &Error{
		Kind:   sentinel.Kind,
		Detail: cause.Error(),
		cause:  errors.Join(sentinel, cause),
	}
}

func (e *Error) Error() string {
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// Detail returns the human-readable detail of the first *Error in err's chain.
// For errors outside the taxonomy it returns err.Error().
func Detail(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Detail
	}
	return err.Error()
}
