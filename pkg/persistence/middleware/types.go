// Package middleware provides store wrappers for session data at rest:
// AES-GCM encryption with key rotation, and masking of free-text fields
// retained after commit.
package middleware

import "github.com/peoplehub/hrflow/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore

// Chain applies middlewares so the first listed is outermost.
func Chain(store ports.SessionStore, mws ...Middleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
