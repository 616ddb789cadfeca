package frame

import "fmt"

// Vector is a one-dimensional array value, the Array-kind counterpart of
// Frame. Like Frame it may be metadata-only: dtype and length known, no data.
type Vector struct {
	id           string
	backend      string
	dtype        DType
	values       []any
	length       int
	materialized bool
}

// NewVector creates a materialized Vector.
func NewVector(backend string, dtype DType, values []any) *Vector {
	return &Vector{
		id:           newID(),
		backend:      backend,
		dtype:        dtype,
		values:       values,
		length:       len(values),
		materialized: true,
	}
}

// NewEmptyVector creates a metadata-only Vector of known dtype and length.
func NewEmptyVector(backend string, dtype DType, length int) *Vector {
	return &Vector{
		id:      newID(),
		backend: backend,
		dtype:   dtype,
		length:  length,
	}
}

// ID returns the vector's unique identifier.
func (v *Vector) ID() string { return v.id }

// Backend returns the label of the backend whose representation this is.
func (v *Vector) Backend() string { return v.backend }

// DType returns the element type.
func (v *Vector) DType() DType { return v.dtype }

// Len returns the element count.
func (v *Vector) Len() int { return v.length }

// Materialized reports whether the vector carries data.
func (v *Vector) Materialized() bool { return v.materialized }

// Values returns the element values.
func (v *Vector) Values() ([]any, error) {
	if !v.materialized {
		return nil, fmt.Errorf("vector: not materialized")
	}
	return v.values, nil
}

// WithBackend returns a copy relabeled to the given backend, sharing the
// underlying values.
func (v *Vector) WithBackend(backend string) *Vector {
	w := *v
	w.id = newID()
	w.backend = backend
	return &w
}
