// Package gate provides the coordination gate that serializes all
// access to the shared request queue.
//
// A Gate combines one mutex, one broadcast condition variable and a
// monotonic cancellation flag. Producers block until the queue has
// space, consumers block until their own group has a request, and
// RequestShutdown wakes every waiter so each loop can observe the flag
// and terminate. Every mutation broadcasts, because a single push or
// pop can satisfy both the producer predicate and any number of
// consumer predicates.
package gate
