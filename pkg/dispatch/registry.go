package dispatch

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mesh-intelligence/crossbar/pkg/types"
)

// Built-in default labels, fixed at build time. The native backends are the
// process defaults for both kinds.
const (
	DefaultDataFrameLabel = "native"
	DefaultArrayLabel     = "native"
)

// Registry maps backend labels to implementations, one namespace per
// collection kind. Registration is additive for the process lifetime; there
// is no teardown. Re-registering an existing label is rejected with
// ErrDuplicateBackend so a later registration cannot silently shadow an
// earlier one.
// Implements prd001-dispatch-core R4; docs/ARCHITECTURE § Backend Registry.
type Registry struct {
	mu    sync.RWMutex
	kinds map[types.Kind]map[string]*types.Implementation
}

// NewRegistry creates an empty Registry. Tests and embedders build isolated
// registries; nothing in this package holds one globally.
func NewRegistry() *Registry {
	return &Registry{
		kinds: make(map[types.Kind]map[string]*types.Implementation),
	}
}

// Register adds impl to the kind's namespace under its own label.
// Returns ErrKindUnknown, ErrLabelEmpty or ErrMoveFuncMissing on a malformed
// registration, ErrDuplicateBackend if the label is taken, and
// ErrFallbackCycle if the implementation's fallback chain would reach back
// to its own label. The insert is atomic: a failed registration leaves the
// namespace untouched.
func (r *Registry) Register(kind types.Kind, impl *types.Implementation) error {
	if !kind.Valid() {
		return fmt.Errorf("register %q: %w", kind, types.ErrKindUnknown)
	}
	if err := impl.Validate(); err != nil {
		return fmt.Errorf("register %q/%q: %w", kind, impl.Label(), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ns := r.kinds[kind]
	if ns == nil {
		ns = make(map[string]*types.Implementation)
		r.kinds[kind] = ns
	}
	if _, exists := ns[impl.Label()]; exists {
		return fmt.Errorf("register %q/%q: %w", kind, impl.Label(), types.ErrDuplicateBackend)
	}

	// A cycle over labels closes exactly when its last member registers, so
	// walking the new entry's fallback chain over registered entries detects
	// every cycle at registration time.
	seen := map[string]bool{impl.Label(): true}
	for next := impl.Fallback(); next != ""; {
		if seen[next] {
			return fmt.Errorf("register %q/%q: chain revisits %q: %w",
				kind, impl.Label(), next, types.ErrFallbackCycle)
		}
		seen[next] = true
		nextImpl, ok := ns[next]
		if !ok {
			// Fallback labels resolve lazily; the chain ends at the first
			// not-yet-registered label.
			break
		}
		next = nextImpl.Fallback()
	}

	ns[impl.Label()] = impl
	return nil
}

// Resolve returns the Implementation registered under label for the kind.
// Pure lookup: fallback chains are not traversed. Returns ErrBackendNotFound
// for an unregistered label.
func (r *Registry) Resolve(kind types.Kind, label string) (*types.Implementation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	impl, ok := r.kinds[kind][label]
	if !ok {
		return nil, fmt.Errorf("resolve %q/%q: %w", kind, label, types.ErrBackendNotFound)
	}
	return impl, nil
}

// DefaultLabel returns the built-in default backend label for the kind.
func (r *Registry) DefaultLabel(kind types.Kind) string {
	switch kind {
	case types.KindArray:
		return DefaultArrayLabel
	default:
		return DefaultDataFrameLabel
	}
}

// Labels returns a sorted snapshot of the labels registered for the kind.
func (r *Registry) Labels(kind types.Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labels := make([]string, 0, len(r.kinds[kind]))
	for label := range r.kinds[kind] {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
