// Package route turns the fixed set of server nodes a run was configured
// with into a concrete key→address mapping: which physical endpoint a
// worker must dial to reach the server responsible for a given key, and a
// per-endpoint lock so that two goroutines sending to the same connection
// never interleave their frames.
//
// The logical key→node-id assignment is internal/hashfrag's job; this
// package only attaches real addresses to those node ids and keeps the
// assignment stable by sorting nodes into the same order every time,
// regardless of the order in which they happened to register with the
// rendezvous registry.
package route
