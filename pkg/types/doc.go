// Package types defines the collection kinds, backend implementation type,
// operation call surface, and standard error types for the Crossbar dispatch
// system.
// Implements: prd001-dispatch-core (Kind, Args, Implementation, error types);
//
//	docs/ARCHITECTURE § Core Vocabulary.
package types
