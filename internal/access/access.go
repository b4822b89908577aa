package access

import (
	"fmt"

	"github.com/dreamware/paramserver/internal/table"
)

// PullAccessAgent answers pull requests for a table of parameters of type
// V, projecting each stored parameter down to the type P actually sent to
// workers. A key that has never been seen is lazily initialized via
// initParam before being projected, so a pull is always the operation that
// brings a key into existence on the server.
type PullAccessAgent[V any, P any] struct {
	tb        *table.Table[V]
	initParam func() V
	project   func(V) P
}

// NewPullAccessAgent builds a PullAccessAgent over tb. initParam supplies
// the initial state for a key seen for the first time; project extracts the
// subset of the stored parameter that is meaningful to a worker (e.g. the
// weight, without the optimizer's internal accumulators).
func NewPullAccessAgent[V any, P any](tb *table.Table[V], initParam func() V, project func(V) P) *PullAccessAgent[V, P] {
	return &PullAccessAgent[V, P]{tb: tb, initParam: initParam, project: project}
}

// Get returns the projected parameter for key, initializing it first if
// this is the key's first appearance in the table.
func (a *PullAccessAgent[V, P]) Get(key table.Key) P {
	a.tb.Mutate(key, func(cur V, ok bool) V {
		if ok {
			return cur
		}
		return a.initParam()
	})
	v, _ := a.tb.Find(key)
	return a.project(v)
}

// PushAccessAgent answers push requests for a table of parameters of type
// V, folding an incoming gradient of type G into the stored parameter via
// apply. Applying a gradient for a key the table has never seen is a
// protocol violation: a worker can only have a gradient for a key it
// previously pulled, and pulling always initializes the key. Apply panics
// in that case rather than silently inventing a parameter, the same
// fail-fast stance the wire layer takes for an unrecognized message class.
type PushAccessAgent[V any, G any] struct {
	tb    *table.Table[V]
	apply func(current V, grad G) V
}

// NewPushAccessAgent builds a PushAccessAgent over tb. apply computes the
// next parameter state from the current one and an incoming gradient (for
// example, an AdaGrad update).
func NewPushAccessAgent[V any, G any](tb *table.Table[V], apply func(current V, grad G) V) *PushAccessAgent[V, G] {
	return &PushAccessAgent[V, G]{tb: tb, apply: apply}
}

// Apply folds grad into the parameter stored under key.
func (a *PushAccessAgent[V, G]) Apply(key table.Key, grad G) {
	if _, ok := a.tb.Find(key); !ok {
		panic(fmt.Sprintf("access: push for key %d that was never pulled", key))
	}
	a.tb.Mutate(key, func(cur V, ok bool) V {
		return a.apply(cur, grad)
	})
}
