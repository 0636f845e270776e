/*
Package observability exposes the engine's lifecycle events as
Prometheus metrics and structured audit logs.

Hooks are plain callbacks; Merge combines several hook sets so metrics,
audit logging, and caller-supplied hooks can observe the same events.
*/
package observability
