// Package memengine provides an in-memory implementation of store.Engine.
//
// All records live in insertion-ordered slices guarded by a single RWMutex.
// Atomically holds the write lock for the whole unit of work and runs it against
// a copy of the tables; the copy replaces the live tables only if the unit of work
// succeeds, so a failed operation leaves every collection unchanged.
//
// The engine is meant for tests and for running the service without a database.
// Units of work must not call Atomically again on the same engine.
package memengine
