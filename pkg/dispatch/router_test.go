package dispatch

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/mesh-intelligence/crossbar/pkg/types"
)

// newTestRegistry builds the registry from the worked example: "pandas"
// defines read_parquet and read_json; "cudf" defines read_orc and falls back
// to pandas, wrapping results in a gpu: prefix.
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()

	pandas := types.NewImplementation("pandas").
		Define("read_parquet", op("pandas:parquet")).
		Define("read_json", op("pandas:json"))
	cudf := types.NewImplementation("cudf").
		Define("read_orc", op("cudf:orc")).
		WithFallback("pandas", func(result any) (any, error) {
			return "gpu:" + result.(string), nil
		})

	if err := reg.Register(types.KindDataFrame, pandas); err != nil {
		t.Fatalf("Register pandas: %v", err)
	}
	if err := reg.Register(types.KindDataFrame, cudf); err != nil {
		t.Fatalf("Register cudf: %v", err)
	}
	return reg
}

// newTestRouter wires a router whose warnings land in the returned buffer.
func newTestRouter(reg *Registry) (*Router, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return NewRouter(reg, logger), &buf
}

func cudfConfig() *Config {
	cfg := NewConfig()
	cfg.SetActiveBackend(types.KindDataFrame, "cudf")
	return cfg
}

func TestDispatchDirectPath(t *testing.T) {
	router, warnings := newTestRouter(newTestRegistry(t))

	result, err := router.Dispatch(types.KindDataFrame, "read_orc", types.NewArgs(), cudfConfig())
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result != "cudf:orc" {
		t.Fatalf("expected direct cudf result, got %v", result)
	}
	if warnings.Len() != 0 {
		t.Fatalf("direct dispatch must not warn, got %q", warnings.String())
	}
}

func TestDispatchDirectPathNeverConsultsFallback(t *testing.T) {
	reg := NewRegistry()
	// The fallback also defines the operation; presence on the active
	// backend must still win.
	pandas := types.NewImplementation("pandas").Define("read_json", op("pandas:json"))
	cudf := types.NewImplementation("cudf").
		Define("read_json", op("cudf:json")).
		WithFallback("pandas", func(result any) (any, error) {
			t.Fatal("move function must not run on the direct path")
			return nil, nil
		})
	if err := reg.Register(types.KindDataFrame, pandas); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register(types.KindDataFrame, cudf); err != nil {
		t.Fatalf("Register: %v", err)
	}
	router, _ := newTestRouter(reg)

	result, err := router.Dispatch(types.KindDataFrame, "read_json", types.NewArgs(), cudfConfig())
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result != "cudf:json" {
		t.Fatalf("expected cudf's own result, got %v", result)
	}
}

func TestDispatchFallbackConvertsAndWarns(t *testing.T) {
	router, warnings := newTestRouter(newTestRegistry(t))

	result, err := router.Dispatch(types.KindDataFrame, "read_json", types.NewArgs(), cudfConfig())
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result != "gpu:pandas:json" {
		t.Fatalf("expected converted fallback result, got %v", result)
	}

	out := warnings.String()
	for _, want := range []string{"read_json", "cudf", "pandas"} {
		if !strings.Contains(out, want) {
			t.Fatalf("warning must name %q, got %q", want, out)
		}
	}
}

func TestDispatchWarningGatedByConfig(t *testing.T) {
	router, warnings := newTestRouter(newTestRegistry(t))

	cfg := cudfConfig()
	cfg.SetWarnFallback(false)

	result, err := router.Dispatch(types.KindDataFrame, "read_json", types.NewArgs(), cfg)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result != "gpu:pandas:json" {
		t.Fatalf("expected converted fallback result, got %v", result)
	}
	if warnings.Len() != 0 {
		t.Fatalf("warn-fallback=false must suppress the diagnostic, got %q", warnings.String())
	}
}

func TestDispatchFallbackDisabled(t *testing.T) {
	router, _ := newTestRouter(newTestRegistry(t))

	cfg := cudfConfig()
	cfg.SetAllowFallback(false)

	_, err := router.Dispatch(types.KindDataFrame, "read_json", types.NewArgs(), cfg)
	if !errors.Is(err, types.ErrOperationNotImplemented) {
		t.Fatalf("expected ErrOperationNotImplemented, got %v", err)
	}
	if !strings.Contains(err.Error(), "fallback disabled") {
		t.Fatalf("error must state fallback was disabled, got %v", err)
	}
}

func TestDispatchTerminalBackendWithoutOperation(t *testing.T) {
	router, _ := newTestRouter(newTestRegistry(t))

	cfg := NewConfig()
	cfg.SetActiveBackend(types.KindDataFrame, "pandas")

	_, err := router.Dispatch(types.KindDataFrame, "read_orc", types.NewArgs(), cfg)
	if !errors.Is(err, types.ErrOperationNotImplemented) {
		t.Fatalf("expected ErrOperationNotImplemented, got %v", err)
	}
	if !strings.Contains(err.Error(), "no fallback") {
		t.Fatalf("error must state no fallback is configured, got %v", err)
	}
}

func TestDispatchUnknownBackend(t *testing.T) {
	router, _ := newTestRouter(newTestRegistry(t))

	cfg := NewConfig()
	cfg.SetActiveBackend(types.KindDataFrame, "polars")

	_, err := router.Dispatch(types.KindDataFrame, "read_json", types.NewArgs(), cfg)
	if !errors.Is(err, types.ErrBackendNotFound) {
		t.Fatalf("expected ErrBackendNotFound, got %v", err)
	}
}

func TestDispatchUsesDefaultLabelWhenUnset(t *testing.T) {
	reg := NewRegistry()
	native := types.NewImplementation("native").Define("read_csv", op("native:csv"))
	if err := reg.Register(types.KindDataFrame, native); err != nil {
		t.Fatalf("Register: %v", err)
	}
	router, _ := newTestRouter(reg)

	// Nil config: default label, fallback allowed, warnings on.
	result, err := router.Dispatch(types.KindDataFrame, "read_csv", types.NewArgs(), nil)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if result != "native:csv" {
		t.Fatalf("expected the default backend's result, got %v", result)
	}
}

func TestDispatchChainedFallback(t *testing.T) {
	reg := NewRegistry()
	pandas := types.NewImplementation("pandas").Define("read_json", op("pandas:json"))
	cudf := types.NewImplementation("cudf").WithFallback("pandas", func(result any) (any, error) {
		return "gpu:" + result.(string), nil
	})
	sparse := types.NewImplementation("sparse").WithFallback("cudf", func(result any) (any, error) {
		return "sparse:" + result.(string), nil
	})
	for _, impl := range []*types.Implementation{pandas, cudf, sparse} {
		if err := reg.Register(types.KindDataFrame, impl); err != nil {
			t.Fatalf("Register %s: %v", impl.Label(), err)
		}
	}
	router, warnings := newTestRouter(reg)

	cfg := NewConfig()
	cfg.SetActiveBackend(types.KindDataFrame, "sparse")

	result, err := router.Dispatch(types.KindDataFrame, "read_json", types.NewArgs(), cfg)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	// Each hop applies its own move, innermost first.
	if result != "sparse:gpu:pandas:json" {
		t.Fatalf("expected chained conversion, got %v", result)
	}
	if got := strings.Count(warnings.String(), "served by fallback"); got != 2 {
		t.Fatalf("expected one warning per hop (2), got %d: %q", got, warnings.String())
	}
}

func TestDispatchConversionFailureSurfaces(t *testing.T) {
	reg := NewRegistry()
	pandas := types.NewImplementation("pandas").Define("read_json", op("pandas:json"))
	cudf := types.NewImplementation("cudf").WithFallback("pandas", func(result any) (any, error) {
		return nil, fmt.Errorf("incompatible schema")
	})
	if err := reg.Register(types.KindDataFrame, pandas); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register(types.KindDataFrame, cudf); err != nil {
		t.Fatalf("Register: %v", err)
	}
	router, _ := newTestRouter(reg)

	_, err := router.Dispatch(types.KindDataFrame, "read_json", types.NewArgs(), cudfConfig())
	if !errors.Is(err, types.ErrFallbackConversion) {
		t.Fatalf("expected ErrFallbackConversion, got %v", err)
	}
	if !strings.Contains(err.Error(), "incompatible schema") {
		t.Fatalf("conversion cause must be preserved, got %v", err)
	}
}

func TestDispatchOperationErrorPropagates(t *testing.T) {
	reg := NewRegistry()
	failing := types.NewImplementation("native").Define("read_csv", func(args types.Args) (any, error) {
		return nil, fmt.Errorf("file does not exist")
	})
	if err := reg.Register(types.KindDataFrame, failing); err != nil {
		t.Fatalf("Register: %v", err)
	}
	router, _ := newTestRouter(reg)

	_, err := router.Dispatch(types.KindDataFrame, "read_csv", types.NewArgs(), nil)
	if err == nil || !strings.Contains(err.Error(), "file does not exist") {
		t.Fatalf("operation errors must propagate, got %v", err)
	}
}
