package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/crossbar/pkg/types"
)

// Router resolves a named creation operation against the configured active
// backend, delegating to the fallback chain when the active backend lacks
// the operation. The router holds no lock across the dispatched callables;
// only the registry's internal map access is synchronized.
// Implements prd001-dispatch-core R6; docs/ARCHITECTURE § Dispatch Router.
type Router struct {
	registry *Registry
	logger   *slog.Logger
}

// NewRouter creates a Router over the given registry. A nil logger selects
// slog.Default for the fallback diagnostic.
func NewRouter(registry *Registry, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{registry: registry, logger: logger}
}

// Dispatch routes the operation to the active backend for the kind.
//
// When the active backend defines the operation it is invoked directly and
// its result returned untouched. Otherwise the fallback chain is consulted
// (subject to cfg.AllowFallback), the fallback's result is converted through
// the active backend's move function, and a warning naming the serving
// backend is emitted when cfg.WarnFallback is set.
//
// A nil cfg dispatches with the defaults: registry default label, fallback
// allowed, warnings on.
func (r *Router) Dispatch(kind types.Kind, operation string, args types.Args, cfg *Config) (any, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	active, ok := cfg.ActiveBackend(kind)
	if !ok {
		active = r.registry.DefaultLabel(kind)
	}
	result, _, err := r.dispatchChain(kind, active, operation, args, cfg, map[string]bool{})
	return result, err
}

// dispatchChain resolves one hop of the fallback chain. It returns the label
// of the backend that actually served the operation so each hop can name it
// in its diagnostic. seen bounds the chain by the acyclicity invariant; the
// registry rejects cycles at registration, so a revisit here means the
// registry was bypassed.
func (r *Router) dispatchChain(kind types.Kind, active, operation string, args types.Args, cfg *Config, seen map[string]bool) (any, string, error) {
	if seen[active] {
		return nil, "", fmt.Errorf("dispatch %q/%q: chain revisits %q: %w",
			kind, operation, active, types.ErrFallbackCycle)
	}
	seen[active] = true

	impl, err := r.registry.Resolve(kind, active)
	if err != nil {
		return nil, "", err
	}

	// Presence wins over fallback unconditionally; exact string match only.
	if op, ok := impl.Operation(operation); ok {
		result, err := op(args)
		if err != nil {
			return nil, "", fmt.Errorf("dispatch %q/%q on %q: %w", kind, operation, active, err)
		}
		return result, active, nil
	}

	if impl.Fallback() == "" {
		return nil, "", fmt.Errorf(
			"operation %q not implemented for backend %q, and no fallback configured: %w",
			operation, active, types.ErrOperationNotImplemented)
	}
	if !cfg.AllowFallback() {
		return nil, "", fmt.Errorf(
			"operation %q not implemented for backend %q; fallback disabled by configuration: %w",
			operation, active, types.ErrOperationNotImplemented)
	}

	result, served, err := r.dispatchChain(kind, impl.Fallback(), operation, args, cfg, seen)
	if err != nil {
		return nil, "", err
	}

	moved, err := impl.MoveFromFallback(result)
	if err != nil {
		return nil, "", fmt.Errorf("move %q result from %q to %q: %w: %w",
			operation, served, active, types.ErrFallbackConversion, err)
	}

	if cfg.WarnFallback() {
		r.logger.Warn("operation served by fallback backend",
			"kind", string(kind),
			"operation", operation,
			"backend", active,
			"served_by", served)
	}
	return moved, served, nil
}
