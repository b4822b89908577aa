// Package cluster provides the rendezvous mechanism by which worker and
// server processes discover each other's addresses at startup.
//
// The cluster membership itself is static: neither servers nor workers
// join or leave mid-run. The node list a process routes against is the
// registry's list at the moment it asks; the cluster.nodes list in
// internal/config is loaded but not consulted. What is dynamic is process
// start order — a worker can start before its servers finish binding their
// listeners, and vice versa. Rather than requiring an operator to sequence
// startup by hand, every server registers its live address with a
// rendezvous registry, retrying at a fixed delay up to a bounded number of
// attempts, the same shape this codebase already used for
// node-to-coordinator registration; workers do not register, they poll
// the registry's node list the same way.
//
// The registry is deliberately the simplest thing that removes the
// ordering dependency: an HTTP endpoint backed by a map, not a consensus
// system. Losing the registry process loses only the ability to finish
// bootstrapping a not-yet-started process; it is not on any request path
// once a run is up.
package cluster
