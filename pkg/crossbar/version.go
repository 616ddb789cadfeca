// Package crossbar exposes module-level metadata.
package crossbar

// Version is the crossbar release version.
const Version = "0.1.0"
