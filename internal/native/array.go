package native

import (
	"fmt"

	"github.com/mesh-intelligence/crossbar/pkg/frame"
	"github.com/mesh-intelligence/crossbar/pkg/types"
)

// NewArrayBackend builds the native Array backend. Terminal: no fallback.
func NewArrayBackend() *types.Implementation {
	return types.NewImplementation(Label).
		Define("zeros", zeros).
		Define("arange", arange).
		Define("from_values", fromValues)
}

// zeros creates a float64 vector of the given length filled with zero.
// Keywords: length (int).
func zeros(args types.Args) (any, error) {
	length, err := args.Int("length")
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("zeros: negative length %d", length)
	}
	values := make([]any, length)
	for i := range values {
		values[i] = float64(0)
	}
	return frame.NewVector(Label, frame.Float64, values), nil
}

// arange creates an int64 vector covering [start, stop) with the given step.
// Keywords: start, stop, step (int; step defaults to 1).
func arange(args types.Args) (any, error) {
	start, err := args.Int("start")
	if err != nil {
		return nil, err
	}
	stop, err := args.Int("stop")
	if err != nil {
		return nil, err
	}
	step := 1
	if _, ok := args.Keywords["step"]; ok {
		if step, err = args.Int("step"); err != nil {
			return nil, err
		}
	}
	if step == 0 {
		return nil, fmt.Errorf("arange: step must not be zero")
	}
	var values []any
	if step > 0 {
		for v := start; v < stop; v += step {
			values = append(values, int64(v))
		}
	} else {
		for v := start; v > stop; v += step {
			values = append(values, int64(v))
		}
	}
	return frame.NewVector(Label, frame.Int64, values), nil
}

// fromValues creates a vector from explicit values.
// Keywords: values ([]any), dtype (string, optional; defaults to string).
func fromValues(args types.Args) (any, error) {
	v, ok := args.Keywords["values"]
	if !ok {
		return nil, fmt.Errorf("keyword %q: %w", "values", types.ErrArgMissing)
	}
	values, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("keyword %q: expected []any, got %T: %w",
			"values", v, types.ErrArgType)
	}
	dtype := frame.String
	if _, ok := args.Keywords["dtype"]; ok {
		s, err := args.String("dtype")
		if err != nil {
			return nil, err
		}
		dtype = frame.DType(s)
	}
	return frame.NewVector(Label, dtype, values), nil
}
