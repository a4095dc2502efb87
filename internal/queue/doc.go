// Package queue provides the bounded per-group priority queue at the
// heart of the simulator.
//
// A RequestQueue holds one binary max-heap per group, all sharing a
// single capacity counter. It performs no locking of its own: every
// operation must be called while holding the coordination gate's lock
// (see internal/gate). Preconditions (space on push, a non-empty group
// on pop) are enforced by the callers' wait predicates and checked here
// as contract panics.
package queue
