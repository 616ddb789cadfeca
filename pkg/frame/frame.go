// Package frame provides the in-memory collection values produced by the
// built-in backends: a columnar DataFrame and a one-dimensional Vector.
// Both carry the label of the backend that produced them, which is what the
// fallback move conversion rewrites.
// Implements: prd003-collection-values; docs/ARCHITECTURE § Collection Values.
package frame

import (
	"fmt"

	"github.com/google/uuid"
)

// DType names a column element type.
type DType string

// Supported element types.
const (
	Int64   DType = "int64"
	Float64 DType = "float64"
	String  DType = "string"
	Bool    DType = "bool"
)

// Field describes one column of a schema.
type Field struct {
	Name     string
	Type     DType
	Nullable bool
}

// Schema is an ordered set of fields with a name index.
type Schema struct {
	fields      []Field
	nameToIndex map[string]int
}

// NewSchema builds a Schema from fields. Later duplicates of a field name
// shadow earlier ones in the name index; field order is preserved.
func NewSchema(fields ...Field) *Schema {
	s := &Schema{
		fields:      fields,
		nameToIndex: make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		s.nameToIndex[f.Name] = i
	}
	return s
}

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Field returns the field at position i.
func (s *Schema) Field(i int) Field { return s.fields[i] }

// FieldByName returns the field with the given name.
func (s *Schema) FieldByName(name string) (Field, bool) {
	i, ok := s.nameToIndex[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Names returns the field names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Frame is a columnar DataFrame. A Frame may be materialized (columns
// present) or a metadata-only placeholder carrying just the schema; both
// forms flow through fallback conversion unchanged in shape.
type Frame struct {
	id           string
	backend      string
	schema       *Schema
	columns      [][]any
	nrows        int
	materialized bool
}

// New creates a materialized Frame. columns is indexed [field][row] and must
// have one column per schema field, all of equal length.
func New(backend string, schema *Schema, columns [][]any) (*Frame, error) {
	if len(columns) != schema.Len() {
		return nil, fmt.Errorf("frame: %d columns for %d schema fields", len(columns), schema.Len())
	}
	nrows := 0
	if len(columns) > 0 {
		nrows = len(columns[0])
	}
	for i, col := range columns {
		if len(col) != nrows {
			return nil, fmt.Errorf("frame: column %q has %d rows, expected %d",
				schema.Field(i).Name, len(col), nrows)
		}
	}
	return &Frame{
		id:           newID(),
		backend:      backend,
		schema:       schema,
		columns:      columns,
		nrows:        nrows,
		materialized: true,
	}, nil
}

// NewEmpty creates a metadata-only Frame: schema present, no data.
func NewEmpty(backend string, schema *Schema) *Frame {
	return &Frame{
		id:      newID(),
		backend: backend,
		schema:  schema,
	}
}

// ID returns the frame's unique identifier.
func (f *Frame) ID() string { return f.id }

// Backend returns the label of the backend whose representation this is.
func (f *Frame) Backend() string { return f.backend }

// Schema returns the frame's schema.
func (f *Frame) Schema() *Schema { return f.schema }

// NumRows returns the row count. Zero for metadata-only frames.
func (f *Frame) NumRows() int { return f.nrows }

// NumCols returns the column count.
func (f *Frame) NumCols() int { return f.schema.Len() }

// Materialized reports whether the frame carries data. A materialized frame
// with zero rows is distinct from a metadata-only placeholder.
func (f *Frame) Materialized() bool { return f.materialized }

// Column returns the values of the named column.
func (f *Frame) Column(name string) ([]any, error) {
	i, ok := f.schema.nameToIndex[name]
	if !ok {
		return nil, fmt.Errorf("frame: no column %q", name)
	}
	if !f.materialized {
		return nil, fmt.Errorf("frame: column %q: frame is not materialized", name)
	}
	return f.columns[i], nil
}

// WithBackend returns a copy relabeled to the given backend. Schema and
// data are shared with the receiver; only the producing label and identity
// change. This is the conversion primitive used by move functions.
func (f *Frame) WithBackend(backend string) *Frame {
	g := *f
	g.id = newID()
	g.backend = backend
	return &g
}

// newID generates a UUID v7, falling back to v4 if v7 generation fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
