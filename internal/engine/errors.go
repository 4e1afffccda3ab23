package engine

import (
	"errors"
	"fmt"
)

// Kind classifies an engine failure. Every business-rule violation maps to
// exactly one kind; callers branch on the kind, never on error strings.
type Kind int

const (
	// KindUnauthenticated means no resolvable actor was supplied.
	KindUnauthenticated Kind = iota + 1
	// KindNotFound means a referenced post, comment or user is absent.
	KindNotFound
	// KindUnauthorized means the actor lacks rights over the resource.
	KindUnauthorized
	// KindInvalidOperation means the operation is structurally invalid,
	// e.g. a self-follow.
	KindInvalidOperation
	// KindInvalidArgument means an input failed validation, e.g. empty
	// comment content.
	KindInvalidArgument
	// KindConflict means a constraint race was resolved internally. It is
	// never surfaced to callers; losers observe the consistent state instead.
	KindConflict
	// KindStorageFailure means the underlying store failed or the atomic
	// unit was rolled back.
	KindStorageFailure
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidOperation:
		return "invalid_operation"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindConflict:
		return "conflict"
	case KindStorageFailure:
		return "storage_failure"
	}
	return "unknown"
}

// Error is a typed engine failure.
type Error struct {
	Kind Kind
	Op   string // operation that failed, e.g. "engine.toggle_like"
	Msg  string
	Err  error // wrapped cause, may be nil
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
}

// Unwrap returns the wrapped cause
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new typed engine error.
func E(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// WithCause attaches the underlying cause and returns the error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// wrapStorage wraps a store failure, preserving an already-typed error.
func wrapStorage(op string, err error) error {
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return err
	}
	return &Error{Kind: KindStorageFailure, Op: op, Msg: "storage failure", Err: err}
}

// KindOf extracts the kind from an error chain; zero when untyped.
func KindOf(err error) Kind {
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return engineErr.Kind
	}
	return 0
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// ErrDuplicateKey is returned by Store implementations when an insert loses
// a race against the store's uniqueness constraint. The engine resolves it
// by re-reading; it never escapes an engine operation.
var ErrDuplicateKey = errors.New("duplicate key")
