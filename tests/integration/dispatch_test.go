// In-process integration tests for the built-in registry: dispatch through
// the default backends, fallback conversion into the sqlite representation,
// policy flags, and scoped backend selection.
package integration

import (
	"bytes"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/crossbar/pkg/dispatch"
	"github.com/mesh-intelligence/crossbar/pkg/frame"
	"github.com/mesh-intelligence/crossbar/pkg/types"
)

// newRouter builds a router over the default registry with captured warnings.
func newRouter(t *testing.T) (*dispatch.Router, *bytes.Buffer) {
	t.Helper()
	reg, err := dispatch.NewDefaultRegistry()
	require.NoError(t, err)

	var warnings bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&warnings, nil))
	return dispatch.NewRouter(reg, logger), &warnings
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultRegistryServesNativeReads(t *testing.T) {
	router, warnings := newRouter(t)
	path := writeTempFile(t, "data.csv", "id,name\n1,a\n")

	result, err := router.Dispatch(types.KindDataFrame, "read_csv",
		types.NewArgs().With("path", path), nil)
	require.NoError(t, err)

	f := result.(*frame.Frame)
	assert.Equal(t, "native", f.Backend())
	assert.Equal(t, 1, f.NumRows())
	assert.Zero(t, warnings.Len(), "direct dispatch must not warn")
}

func TestSQLiteFallsBackToNativeWithConversion(t *testing.T) {
	router, warnings := newRouter(t)
	path := writeTempFile(t, "data.json", `[{"id": 1}, {"id": 2}, {"id": 3}]`)

	cfg := dispatch.NewConfig()
	cfg.SetActiveBackend(types.KindDataFrame, "sqlite")

	result, err := router.Dispatch(types.KindDataFrame, "read_json",
		types.NewArgs().With("path", path), cfg)
	require.NoError(t, err)

	f := result.(*frame.Frame)
	assert.Equal(t, "sqlite", f.Backend(), "result must be moved into the active representation")
	assert.Equal(t, 3, f.NumRows(), "conversion must preserve shape")
	assert.Contains(t, warnings.String(), "read_json")
	assert.Contains(t, warnings.String(), "sqlite")
	assert.Contains(t, warnings.String(), "native")
}

func TestFallbackDisabledFailsTerminally(t *testing.T) {
	router, _ := newRouter(t)

	cfg := dispatch.NewConfig()
	cfg.SetActiveBackend(types.KindDataFrame, "sqlite")
	cfg.SetAllowFallback(false)

	_, err := router.Dispatch(types.KindDataFrame, "read_json",
		types.NewArgs().With("path", "irrelevant.json"), cfg)
	assert.True(t, errors.Is(err, types.ErrOperationNotImplemented), "got %v", err)
}

func TestWarnFlagSuppressesDiagnostic(t *testing.T) {
	router, warnings := newRouter(t)
	path := writeTempFile(t, "data.json", `[{"id": 1}]`)

	cfg := dispatch.NewConfig()
	cfg.SetActiveBackend(types.KindDataFrame, "sqlite")
	cfg.SetWarnFallback(false)

	_, err := router.Dispatch(types.KindDataFrame, "read_json",
		types.NewArgs().With("path", path), cfg)
	require.NoError(t, err)
	assert.Zero(t, warnings.Len())
}

func TestScopedBackendSelection(t *testing.T) {
	router, _ := newRouter(t)
	jsonPath := writeTempFile(t, "data.json", `[{"id": 1}]`)

	cfg := dispatch.NewConfig()

	// Inside the scope, reads go through sqlite.
	func() {
		defer cfg.Use(types.KindDataFrame, "sqlite")()

		result, err := router.Dispatch(types.KindDataFrame, "read_json",
			types.NewArgs().With("path", jsonPath), cfg)
		require.NoError(t, err)
		assert.Equal(t, "sqlite", result.(*frame.Frame).Backend())
	}()

	// After the scope exits, the default applies again.
	result, err := router.Dispatch(types.KindDataFrame, "read_json",
		types.NewArgs().With("path", jsonPath), cfg)
	require.NoError(t, err)
	assert.Equal(t, "native", result.(*frame.Frame).Backend())
}

func TestScopedSelectionRestoredOnFailure(t *testing.T) {
	router, _ := newRouter(t)
	jsonPath := writeTempFile(t, "data.json", `[{"id": 1}]`)

	cfg := dispatch.NewConfig()

	func() {
		defer func() { _ = recover() }()
		defer cfg.Use(types.KindDataFrame, "sqlite")()
		panic("scoped body failed")
	}()

	result, err := router.Dispatch(types.KindDataFrame, "read_json",
		types.NewArgs().With("path", jsonPath), cfg)
	require.NoError(t, err)
	assert.Equal(t, "native", result.(*frame.Frame).Backend(),
		"selection must not leak out of a failed scope")
}

func TestArrayKindDispatch(t *testing.T) {
	router, _ := newRouter(t)

	result, err := router.Dispatch(types.KindArray, "arange",
		types.NewArgs().With("start", 0).With("stop", 5), nil)
	require.NoError(t, err)

	v := result.(*frame.Vector)
	assert.Equal(t, 5, v.Len())
	assert.Equal(t, frame.Int64, v.DType())
}

func TestSQLiteReadSQLEndToEnd(t *testing.T) {
	router, warnings := newRouter(t)
	dbPath := filepath.Join(t.TempDir(), "metrics.db")

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE metrics (id INTEGER, value REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO metrics VALUES (1, 0.5), (2, 1.5)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	cfg := dispatch.NewConfig()
	cfg.SetActiveBackend(types.KindDataFrame, "sqlite")

	result, err := router.Dispatch(types.KindDataFrame, "read_sql",
		types.NewArgs().
			With("path", dbPath).
			With("query", "SELECT id, value FROM metrics ORDER BY id"), cfg)
	require.NoError(t, err)

	f := result.(*frame.Frame)
	assert.Equal(t, "sqlite", f.Backend())
	assert.Equal(t, 2, f.NumRows())
	assert.Zero(t, warnings.Len(), "a direct operation must not warn")
}

func TestSQLiteReadSQLMissingDatabase(t *testing.T) {
	router, _ := newRouter(t)

	cfg := dispatch.NewConfig()
	cfg.SetActiveBackend(types.KindDataFrame, "sqlite")

	_, err := router.Dispatch(types.KindDataFrame, "read_sql",
		types.NewArgs().
			With("path", filepath.Join(t.TempDir(), "absent.db")).
			With("query", "SELECT 1"), cfg)
	assert.Error(t, err)
}

func TestUnknownBackendSurfacesNotFound(t *testing.T) {
	router, _ := newRouter(t)

	cfg := dispatch.NewConfig()
	cfg.SetActiveBackend(types.KindDataFrame, "polars")

	_, err := router.Dispatch(types.KindDataFrame, "read_csv", types.NewArgs(), cfg)
	assert.True(t, errors.Is(err, types.ErrBackendNotFound), "got %v", err)
}
