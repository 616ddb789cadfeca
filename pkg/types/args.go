package types

import "fmt"

// Args carries the positional and keyword arguments of a creation operation.
// The router never inspects them; only the invoked backend callable does.
// Implements prd001-dispatch-core R3.
type Args struct {
	Positional []any
	Keywords   map[string]any
}

// NewArgs builds an Args value from positional arguments only.
func NewArgs(positional ...any) Args {
	return Args{Positional: positional}
}

// With returns a copy of the Args with the keyword set. The receiver is not
// modified, so partially built Args values can be shared between calls.
func (a Args) With(key string, value any) Args {
	kw := make(map[string]any, len(a.Keywords)+1)
	for k, v := range a.Keywords {
		kw[k] = v
	}
	kw[key] = value
	a.Keywords = kw
	return a
}

// String returns the keyword as a string.
// Returns ErrArgMissing if absent, ErrArgType if not a string.
func (a Args) String(key string) (string, error) {
	v, ok := a.Keywords[key]
	if !ok {
		return "", fmt.Errorf("keyword %q: %w", key, ErrArgMissing)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("keyword %q: expected string, got %T: %w", key, v, ErrArgType)
	}
	return s, nil
}

// Int returns the keyword as an int. Accepts int and int64 values, which is
// what YAML and JSON decoding produce for integers.
func (a Args) Int(key string) (int, error) {
	v, ok := a.Keywords[key]
	if !ok {
		return 0, fmt.Errorf("keyword %q: %w", key, ErrArgMissing)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("keyword %q: expected int, got %T: %w", key, v, ErrArgType)
	}
}

// Float returns the keyword as a float64. Integer values are widened.
func (a Args) Float(key string) (float64, error) {
	v, ok := a.Keywords[key]
	if !ok {
		return 0, fmt.Errorf("keyword %q: %w", key, ErrArgMissing)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("keyword %q: expected float, got %T: %w", key, v, ErrArgType)
	}
}

// Bool returns the keyword as a bool.
func (a Args) Bool(key string) (bool, error) {
	v, ok := a.Keywords[key]
	if !ok {
		return false, fmt.Errorf("keyword %q: %w", key, ErrArgMissing)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("keyword %q: expected bool, got %T: %w", key, v, ErrArgType)
	}
	return b, nil
}
