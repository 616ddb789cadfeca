// Package native implements the built-in terminal backends: a pure-Go
// DataFrame backend and a pure-Go Array backend, both registered under the
// "native" label in their respective namespaces. They are the process
// defaults and the end of every fallback chain.
// Implements: prd002-builtin-backends R1, R2; docs/ARCHITECTURE § Native Backends.
package native

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/mesh-intelligence/crossbar/pkg/frame"
	"github.com/mesh-intelligence/crossbar/pkg/types"
)

// Label is the native backends' label in both kind namespaces.
const Label = "native"

// NewDataFrameBackend builds the native DataFrame backend. Terminal: no
// fallback.
func NewDataFrameBackend() *types.Implementation {
	return types.NewImplementation(Label).
		Define("read_json", readJSON).
		Define("read_csv", readCSV).
		Define("from_records", fromRecords).
		Define("empty", emptyFrame)
}

// readJSON reads a JSON file holding an array of flat objects.
// Keywords: path (string).
func readJSON(args types.Args) (any, error) {
	path, err := args.String("path")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read_json: %w", err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("read_json %s: %w", path, err)
	}
	return framesFromRecords(records)
}

// fromRecords builds a frame from in-memory records.
// Keywords: records ([]map[string]any).
func fromRecords(args types.Args) (any, error) {
	v, ok := args.Keywords["records"]
	if !ok {
		return nil, fmt.Errorf("keyword %q: %w", "records", types.ErrArgMissing)
	}
	records, ok := v.([]map[string]any)
	if !ok {
		return nil, fmt.Errorf("keyword %q: expected []map[string]any, got %T: %w",
			"records", v, types.ErrArgType)
	}
	return framesFromRecords(records)
}

// emptyFrame builds a metadata-only frame from an explicit schema.
// Keywords: schema (*frame.Schema).
func emptyFrame(args types.Args) (any, error) {
	v, ok := args.Keywords["schema"]
	if !ok {
		return nil, fmt.Errorf("keyword %q: %w", "schema", types.ErrArgMissing)
	}
	schema, ok := v.(*frame.Schema)
	if !ok {
		return nil, fmt.Errorf("keyword %q: expected *frame.Schema, got %T: %w",
			"schema", v, types.ErrArgType)
	}
	return frame.NewEmpty(Label, schema), nil
}

// framesFromRecords infers a schema from the union of record keys (sorted)
// and builds a materialized frame. Missing keys become nulls and mark the
// field nullable.
func framesFromRecords(records []map[string]any) (*frame.Frame, error) {
	keySet := map[string]bool{}
	for _, rec := range records {
		for k := range rec {
			keySet[k] = true
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]frame.Field, len(keys))
	columns := make([][]any, len(keys))
	for i, key := range keys {
		col := make([]any, len(records))
		dtype := frame.String
		typed := false
		nullable := false
		for j, rec := range records {
			v, ok := rec[key]
			if !ok || v == nil {
				nullable = true
				col[j] = nil
				continue
			}
			vt := jsonDType(v)
			if !typed {
				dtype = vt
				typed = true
			} else if vt != dtype {
				// Mixed columns degrade to string.
				dtype = frame.String
			}
			col[j] = v
		}
		fields[i] = frame.Field{Name: key, Type: dtype, Nullable: nullable}
		columns[i] = col
	}
	return frame.New(Label, frame.NewSchema(fields...), columns)
}

// jsonDType maps a decoded JSON value to a column dtype. JSON numbers decode
// as float64; nested values degrade to string.
func jsonDType(v any) frame.DType {
	switch v.(type) {
	case float64:
		return frame.Float64
	case bool:
		return frame.Bool
	case string:
		return frame.String
	default:
		return frame.String
	}
}

// readCSV reads a CSV file with a header row, inferring each column's dtype
// as the narrowest of int64, float64, bool, string that fits every value.
// Keywords: path (string).
func readCSV(args types.Args) (any, error) {
	path, err := args.String("path")
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read_csv: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read_csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read_csv %s: missing header row", path)
	}
	header := rows[0]
	body := rows[1:]

	fields := make([]frame.Field, len(header))
	columns := make([][]any, len(header))
	for i, name := range header {
		raw := make([]string, len(body))
		for j, row := range body {
			raw[j] = row[i]
		}
		dtype := inferCSVDType(raw)
		col := make([]any, len(raw))
		for j, s := range raw {
			col[j] = parseCSVValue(s, dtype)
		}
		fields[i] = frame.Field{Name: name, Type: dtype}
		columns[i] = col
	}
	return frame.New(Label, frame.NewSchema(fields...), columns)
}

func inferCSVDType(values []string) frame.DType {
	isInt, isFloat, isBool := true, true, true
	for _, s := range values {
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			isFloat = false
		}
		if s != "true" && s != "false" {
			isBool = false
		}
	}
	switch {
	case len(values) == 0:
		return frame.String
	case isInt:
		return frame.Int64
	case isFloat:
		return frame.Float64
	case isBool:
		return frame.Bool
	default:
		return frame.String
	}
}

func parseCSVValue(s string, dtype frame.DType) any {
	switch dtype {
	case frame.Int64:
		n, _ := strconv.ParseInt(s, 10, 64)
		return n
	case frame.Float64:
		f, _ := strconv.ParseFloat(s, 64)
		return f
	case frame.Bool:
		return s == "true"
	default:
		return s
	}
}
