package types

import "errors"

// Dispatch errors (prd001-dispatch-core R7.1). All are terminal from the
// caller's point of view: the only designed recovery is the fallback path
// inside the router, which substitutes a backend before these surface.
var (
	ErrBackendNotFound         = errors.New("backend not found")
	ErrOperationNotImplemented = errors.New("operation not implemented")
	ErrFallbackConversion      = errors.New("fallback conversion failed")
	ErrFallbackCycle           = errors.New("fallback cycle detected")
)

// Registration errors (prd001-dispatch-core R7.2).
var (
	ErrDuplicateBackend = errors.New("duplicate backend registration")
	ErrLabelEmpty       = errors.New("backend label must not be empty")
	ErrMoveFuncMissing  = errors.New("fallback configured without a move function")
	ErrKindUnknown      = errors.New("unknown collection kind")
)

// Argument errors returned by the typed Args accessors.
var (
	ErrArgMissing = errors.New("missing argument")
	ErrArgType    = errors.New("argument has wrong type")
)
