// Package domain contains the core types of the hrflow engine: action
// kinds and their slot schemas, the per-conversation session state, and
// the locale-agnostic directives the engine emits.
//
// Types here have no dependencies on adapters or transports and must
// round-trip through JSON (the redis store serializes them).
package domain
