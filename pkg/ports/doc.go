// Package ports defines the boundary interfaces of the hrflow engine:
// session persistence, per-conversation locking, and the external
// collaborators (classifier, validation gateway, executor, localizer)
// the engine consumes but does not implement.
package ports
