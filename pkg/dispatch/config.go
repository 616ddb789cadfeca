package dispatch

import (
	"sync"

	"github.com/mesh-intelligence/crossbar/pkg/types"
)

// Config holds the active-backend selection per collection kind plus the
// fallback policy flags. A Config is passed explicitly to Dispatch rather
// than held globally, so scoped overrides never leak into unrelated callers.
// Implements prd001-dispatch-core R5; docs/ARCHITECTURE § Active Backend
// Configuration.
type Config struct {
	mu            sync.Mutex
	active        map[types.Kind]string
	allowFallback bool
	warnFallback  bool
}

// NewConfig creates a Config with no explicit backend selection and both
// fallback flags enabled, their defaults.
func NewConfig() *Config {
	return &Config{
		active:        make(map[types.Kind]string),
		allowFallback: true,
		warnFallback:  true,
	}
}

// ActiveBackend returns the selected label for the kind, or ok=false when
// the selection is unset and the registry default applies.
func (c *Config) ActiveBackend(kind types.Kind) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	label, ok := c.active[kind]
	return label, ok
}

// SetActiveBackend selects the backend for the kind permanently. Scoped
// selection goes through Use instead.
func (c *Config) SetActiveBackend(kind types.Kind, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active[kind] = label
}

// Use selects the backend for the kind and returns a restore function that
// reinstates the prior selection. Restore runs exactly once no matter how
// often it is called, so a deferred restore holds even when the scoped body
// fails. Nested uses must restore in reverse order of acquisition.
func (c *Config) Use(kind types.Kind, label string) (restore func()) {
	c.mu.Lock()
	prev, had := c.active[kind]
	c.active[kind] = label
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if had {
				c.active[kind] = prev
			} else {
				delete(c.active, kind)
			}
		})
	}
}

// AllowFallback reports whether the router may delegate a missing operation
// to the fallback backend.
func (c *Config) AllowFallback() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allowFallback
}

// SetAllowFallback gates fallback delegation.
func (c *Config) SetAllowFallback(allow bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.allowFallback = allow
}

// WarnFallback reports whether a diagnostic is emitted when fallback occurs.
func (c *Config) WarnFallback() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.warnFallback
}

// SetWarnFallback gates the fallback diagnostic.
func (c *Config) SetWarnFallback(warn bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnFallback = warn
}
