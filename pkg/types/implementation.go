package types

import "sort"

// Operation is a creation-operation callable. The result is opaque to the
// dispatch layer; it is either returned to the caller directly or handed to
// the active backend's MoveFunc when produced by a fallback.
type Operation func(args Args) (any, error)

// MoveFunc converts a result produced by the fallback backend into the
// owning backend's native representation. The conversion must preserve
// shape and schema even for metadata-only results that carry no data.
type MoveFunc func(result any) (any, error)

// Implementation is one backend's capability set for one collection kind.
// The operations map is partially populated; a backend need not implement
// every operation. A backend with no fallback is terminal.
// Implements prd001-dispatch-core R2; docs/ARCHITECTURE § Backend Model.
type Implementation struct {
	label    string
	ops      map[string]Operation
	fallback string
	move     MoveFunc
}

// NewImplementation creates an Implementation with the given label and no
// operations. The label is fixed for the lifetime of the value.
func NewImplementation(label string) *Implementation {
	return &Implementation{
		label: label,
		ops:   make(map[string]Operation),
	}
}

// Define registers op under name, replacing any previous definition, and
// returns the receiver so definitions chain.
func (im *Implementation) Define(name string, op Operation) *Implementation {
	im.ops[name] = op
	return im
}

// WithFallback declares the backend consulted when an operation is missing,
// together with the conversion applied to results it produces. Registration
// rejects an Implementation whose fallback label is set but whose move
// function is nil.
func (im *Implementation) WithFallback(label string, move MoveFunc) *Implementation {
	im.fallback = label
	im.move = move
	return im
}

// Label returns the backend label assigned at construction.
func (im *Implementation) Label() string { return im.label }

// Fallback returns the fallback backend label, or "" for a terminal backend.
func (im *Implementation) Fallback() string { return im.fallback }

// Operation looks up a creation operation by exact name.
func (im *Implementation) Operation(name string) (Operation, bool) {
	op, ok := im.ops[name]
	return op, ok
}

// OperationNames returns the defined operation names, sorted.
func (im *Implementation) OperationNames() []string {
	names := make([]string, 0, len(im.ops))
	for name := range im.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MoveFromFallback converts a fallback-produced result into this backend's
// representation. Returns ErrMoveFuncMissing if no move function was
// declared; the registry rejects that configuration up front, so hitting it
// here means the Implementation bypassed registration.
func (im *Implementation) MoveFromFallback(result any) (any, error) {
	if im.move == nil {
		return nil, ErrMoveFuncMissing
	}
	return im.move(result)
}

// Validate checks the construction invariants that registration enforces.
func (im *Implementation) Validate() error {
	if im.label == "" {
		return ErrLabelEmpty
	}
	if im.fallback != "" && im.move == nil {
		return ErrMoveFuncMissing
	}
	return nil
}
