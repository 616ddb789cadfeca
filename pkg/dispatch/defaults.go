package dispatch

import (
	"github.com/mesh-intelligence/crossbar/internal/native"
	"github.com/mesh-intelligence/crossbar/internal/sqlite"
	"github.com/mesh-intelligence/crossbar/pkg/types"
)

// NewDefaultRegistry creates a Registry populated with the built-in
// backends: the native DataFrame and Array backends and the SQLite DataFrame
// backend. External backends register on top before first dispatch.
//
// Example:
//
//	reg, err := dispatch.NewDefaultRegistry()
//	router := dispatch.NewRouter(reg, nil)
//	result, err := router.Dispatch(types.KindDataFrame, "read_csv",
//	    types.NewArgs().With("path", "data.csv"), nil)
func NewDefaultRegistry() (*Registry, error) {
	reg := NewRegistry()
	if err := reg.Register(types.KindDataFrame, native.NewDataFrameBackend()); err != nil {
		return nil, err
	}
	if err := reg.Register(types.KindDataFrame, sqlite.NewDataFrameBackend()); err != nil {
		return nil, err
	}
	if err := reg.Register(types.KindArray, native.NewArrayBackend()); err != nil {
		return nil, err
	}
	return reg, nil
}
