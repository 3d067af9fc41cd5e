package errors

import "errors"

// Sentinel kinds for the tool-execution server's JSON-RPC error taxonomy.
// A DomainError's Kind should be one of these (or one of the generic kinds
// in errors.go) so that internal/protocol can map it to a wire error code
// without the caller re-stating the code.
var (
	// ErrParseError indicates malformed JSON at the codec layer.
	ErrParseError = errors.New("parse error")

	// ErrInvalidRequestShape indicates valid JSON that is not a valid
	// JSON-RPC request (missing fields, wrong version, batch request).
	ErrInvalidRequestShape = errors.New("invalid request")

	// ErrMethodNotFound indicates an unknown protocol method or tool name.
	ErrMethodNotFound = errors.New("method not found")

	// ErrInvalidInput indicates tool arguments failed schema validation or
	// a required field was absent.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPermissionDenied indicates a path or command fell outside an
	// allowlist captured at tool construction time.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrTimeout indicates a tool or subprocess exceeded its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrExternal indicates a subprocess spawn failure, non-zero exit, or
	// other downstream I/O failure outside the server's own control.
	ErrExternal = errors.New("external error")
)

// Code returns the JSON-RPC error code for a DomainError's Kind, falling
// back to InternalError (-32603) when the Kind is unrecognized.
func Code(kind error) int {
	switch {
	case errors.Is(kind, ErrParseError):
		return -32700
	case errors.Is(kind, ErrInvalidRequestShape):
		return -32600
	case errors.Is(kind, ErrMethodNotFound):
		return -32601
	case errors.Is(kind, ErrInvalidInput):
		return -32602
	case errors.Is(kind, ErrPermissionDenied):
		return -32000
	case errors.Is(kind, ErrTimeout):
		return -32001
	case errors.Is(kind, ErrExternal):
		return -32002
	case errors.Is(kind, ErrNotFound):
		return -32003
	case errors.Is(kind, ErrBadRequest):
		return -32602
	default:
		return -32603
	}
}
