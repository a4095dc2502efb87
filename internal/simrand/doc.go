// Package simrand provides the injected randomness capability used by
// the simulator for request attributes and simulated delays.
//
// The generator and device loops never touch math/rand directly; they
// take a Source, which makes their timing and item distribution
// deterministic under test.
package simrand
