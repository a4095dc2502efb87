// Package scenario wires the simulator together and runs it.
//
// An Engine builds the request queue, the coordination gate, the
// generator and the device pool from one Config, runs them for the
// configured duration (or until the surrounding context is cancelled),
// requests a coordinated shutdown and collects a Result.
package scenario
