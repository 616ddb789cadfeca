// Package dispatch routes named collection-creation operations to registered
// backend implementations. It provides the process-scoped Registry, the
// scoped active-backend Config, and the Router that applies the
// fallback-and-move policy.
// Implements: prd001-dispatch-core (Registry, Router, Config);
//
//	docs/ARCHITECTURE § Dispatch Router, § Backend Registry.
package dispatch
