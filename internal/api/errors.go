package api

import (
	"github.com/pulsefeed/pulse/internal/engine"
)

// JSON-RPC error codes. The -32001..-32004 range carries the engine's
// failure kinds; validation failures reuse the standard invalid-params code.
const (
	ErrParseError     = -32700
	ErrInvalidRequest = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternalError  = -32603

	ErrServerError      = -32000
	ErrUnauthenticated  = -32001
	ErrNotFound         = -32002
	ErrUnauthorized     = -32003
	ErrInvalidOperation = -32004
)

// CodeForError maps a handler error onto a JSON-RPC error code and message.
func CodeForError(err error) (int, string) {
	switch engine.KindOf(err) {
	case engine.KindUnauthenticated:
		return ErrUnauthenticated, "Unauthenticated"
	case engine.KindNotFound:
		return ErrNotFound, "Not found"
	case engine.KindUnauthorized:
		return ErrUnauthorized, "Unauthorized"
	case engine.KindInvalidOperation:
		return ErrInvalidOperation, "Invalid operation"
	case engine.KindInvalidArgument:
		return ErrInvalidParams, "Invalid params"
	case engine.KindConflict, engine.KindStorageFailure:
		return ErrServerError, "Server error"
	}
	return ErrServerError, "Server error"
}
