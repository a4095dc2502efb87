// Package device provides the consumer side of the simulator.
//
// A Device is the immutable identity of one worker slot bound to a
// single group. Its Loop repeatedly takes the highest-priority request
// for that group from the coordination gate, simulates processing by
// sleeping outside the lock, and terminates when the gate reports
// cancellation. The Pool runs group-count × devices-per-group loops
// and joins them on shutdown.
package device
