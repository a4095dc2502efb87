// Package metrics collects counters describing a simulation run.
//
// Counters are updated by the generator and device loops and read
// concurrently by the report code and the live dashboard. Hot-path
// counters use atomics; the distribution maps are mutex-protected.
package metrics
