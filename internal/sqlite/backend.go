// Package sqlite implements the SQLite DataFrame backend. It serves
// query-shaped creation operations (read_sql, read_table) directly and
// falls back to the native backend for everything else, relabeling the
// fallback's frames into its own representation.
// Implements: prd002-builtin-backends R3; docs/ARCHITECTURE § SQLite Backend.
package sqlite

import (
	"database/sql"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/crossbar/internal/native"
	"github.com/mesh-intelligence/crossbar/pkg/frame"
	"github.com/mesh-intelligence/crossbar/pkg/types"
)

// Label is the backend's label in the DataFrame namespace.
const Label = "sqlite"

// NewDataFrameBackend builds the SQLite DataFrame backend with the native
// backend as its fallback.
func NewDataFrameBackend() *types.Implementation {
	return types.NewImplementation(Label).
		Define("read_sql", readSQL).
		Define("read_table", readTable).
		WithFallback(native.Label, moveFromNative)
}

// moveFromNative converts a native-produced result into the sqlite
// representation. Frames and vectors are relabeled in place, sharing data;
// schema and shape are preserved for materialized and metadata-only results
// alike. Any other result type cannot be converted.
func moveFromNative(result any) (any, error) {
	switch v := result.(type) {
	case *frame.Frame:
		return v.WithBackend(Label), nil
	case *frame.Vector:
		return v.WithBackend(Label), nil
	default:
		return nil, fmt.Errorf("cannot convert %T into the %s representation", result, Label)
	}
}

// readSQL runs a query against a SQLite database file.
// Keywords: path (string), query (string).
func readSQL(args types.Args) (any, error) {
	path, err := args.String("path")
	if err != nil {
		return nil, err
	}
	query, err := args.String("query")
	if err != nil {
		return nil, err
	}
	return queryFrame(path, query)
}

// tableNamePattern restricts read_table identifiers to plain table names so
// the composed SELECT cannot escape into arbitrary SQL.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// readTable reads an entire table.
// Keywords: path (string), table (string).
func readTable(args types.Args) (any, error) {
	path, err := args.String("path")
	if err != nil {
		return nil, err
	}
	table, err := args.String("table")
	if err != nil {
		return nil, err
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("read_table: invalid table name %q", table)
	}
	return queryFrame(path, fmt.Sprintf("SELECT * FROM %s", table))
}

// queryFrame opens the database read-only, runs the query, and builds a
// frame from the result set with per-column dtype inference.
func queryFrame(path, query string) (*frame.Frame, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	columns := make([][]any, len(names))
	scan := make([]any, len(names))
	for rows.Next() {
		for i := range scan {
			scan[i] = new(any)
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		for i, cell := range scan {
			columns[i] = append(columns[i], normalizeCell(*cell.(*any)))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	fields := make([]frame.Field, len(names))
	for i, name := range names {
		fields[i] = inferField(name, columns[i])
	}
	return frame.New(Label, frame.NewSchema(fields...), columns)
}

// normalizeCell maps driver values onto the frame value domain. BLOBs are
// surfaced as strings; nil passes through as a null.
func normalizeCell(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// inferField derives a field from scanned column values: the dtype of the
// first non-null value, degraded to string on mixed types, nullable if any
// value is nil.
func inferField(name string, values []any) frame.Field {
	field := frame.Field{Name: name, Type: frame.String}
	typed := false
	for _, v := range values {
		if v == nil {
			field.Nullable = true
			continue
		}
		vt := cellDType(v)
		if !typed {
			field.Type = vt
			typed = true
		} else if vt != field.Type {
			field.Type = frame.String
		}
	}
	return field
}

func cellDType(v any) frame.DType {
	switch v.(type) {
	case int64:
		return frame.Int64
	case float64:
		return frame.Float64
	case bool:
		return frame.Bool
	default:
		return frame.String
	}
}
