// Package push implements the push side of the worker/server protocol: a
// worker's accumulated, averaged gradients for a set of keys, partitioned
// by owning node and sent as one barrier per round, mirroring how
// internal/pull fans a pull out and waits on it.
//
// The server applies each gradient and then answers with a small
// acknowledgement (the number of gradients applied); the barrier here
// returns only once every node's acknowledgement has arrived, so every
// update in the round has been applied by the time it returns.
package push
