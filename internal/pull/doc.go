// Package pull implements the pull side of the worker/server protocol: a
// worker's request for the current value of a set of keys, partitioned by
// the node that owns each key, sent and awaited as one barrier per round.
//
// A pull fans a worker's key set out to however many server nodes those
// keys hash to, issues one request per node concurrently, and only
// returns once every one of those requests has either a response or a
// failure. This is the natural Go rendering of the
// completion-counter barrier this codebase's original pull/push
// implementation used: a sync.WaitGroup plays the same role a manually
// incremented atomic counter and condition variable played there.
package pull
