// Package generator provides the single producer loop of the simulator.
//
// The Generator waits for free capacity at the coordination gate,
// manufactures one request with a random destination group and a
// random type, and sleeps a randomized generation interval outside
// the lock before repeating. It terminates when the gate reports
// cancellation.
package generator
