/*
Package session implements conversation state orchestration.

It serializes concurrent access per conversation ID through reference
counted in-process locks, optionally combined with a distributed locker
for multi-replica deployments, on top of a pluggable SessionStore.
*/
package session
