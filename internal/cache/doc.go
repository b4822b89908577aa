// Package cache implements the worker-side local parameter cache: the
// pulled copy of a parameter a worker trains against, and the
// not-yet-sent accumulator for gradients computed against it.
//
// A worker never talks to the table directly. It pulls a parameter once
// per minibatch (or less often, if the caller chooses), computes against
// the cached copy, accumulates a gradient locally across however many
// training examples touch that key, and pushes the accumulated average
// back. Gradient accumulation lives here rather than in the transport
// layer so that a key touched by many examples in one minibatch causes
// exactly one push message instead of one per example.
package cache
