package lr

import (
	"math"

	"github.com/dreamware/paramserver/internal/pull"
	"github.com/dreamware/paramserver/internal/wire"
)

// adagradEps is the AdaGrad fudge factor added under the square root to
// keep an untouched feature's first update from dividing by zero.
const adagradEps = 1e-6

// Param is the server-side state for one feature weight: its current
// value and its accumulated squared gradient, the AdaGrad denominator
// term.
type Param struct {
	Val float64
	G2  float64
}

// InitParam seeds a feature's weight the first time a pull touches it.
// A small random value (rather than a fixed zero) breaks the symmetry
// between features the way this model's original implementation did,
// using a caller-supplied source so callers can make it deterministic in
// tests.
func InitParam(randFloat func() float64) Param {
	return Param{Val: randFloat()}
}

// Project extracts the value a worker actually needs from the server's
// full parameter state; the squared-gradient accumulator never leaves
// the server.
func Project(p Param) float64 {
	return p.Val
}

// ApplyAdaGrad folds a pushed, already-averaged gradient into a
// parameter's AdaGrad state at the given learning rate:
//
//	g2    += grad^2
//	value += lr * grad / sqrt(g2 + eps)
func ApplyAdaGrad(learningRate float64) func(cur Param, grad float64) Param {
	return func(cur Param, grad float64) Param {
		cur.G2 += grad * grad
		cur.Val += learningRate * grad / math.Sqrt(cur.G2+adagradEps)
		return cur
	}
}

// Codec is the wire encoding for a pulled feature weight: a single
// float64.
var Codec = pull.Codec[float64]{
	Put: func(b *wire.Buffer, v float64) { b.PutFloat64(v) },
	Get: func(b *wire.Buffer) float64 { return b.GetFloat64() },
}
