package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/paramserver/internal/table"
)

type lrParam struct {
	val float64
	g2  float64
}

func TestPullAccessAgent_InitializesOnFirstGet(t *testing.T) {
	tb := table.New[lrParam](4)
	agent := NewPullAccessAgent(tb, func() lrParam { return lrParam{val: 0.1} }, func(p lrParam) float64 { return p.val })

	first := agent.Get(5)
	assert.Equal(t, 0.1, first)

	tb.Assign(5, lrParam{val: 9.9})
	second := agent.Get(5)
	assert.Equal(t, 9.9, second, "a key already present must not be re-initialized")
}

func TestPushAccessAgent_AppliesGradient(t *testing.T) {
	tb := table.New[lrParam](4)
	pull := NewPullAccessAgent(tb, func() lrParam { return lrParam{} }, func(p lrParam) float64 { return p.val })
	push := NewPushAccessAgent(tb, func(cur lrParam, grad float64) lrParam {
		cur.g2 += grad * grad
		cur.val += grad
		return cur
	})

	pull.Get(1)
	push.Apply(1, 0.5)

	got, ok := tb.Find(1)
	require.True(t, ok)
	assert.Equal(t, 0.5, got.val)
	assert.Equal(t, 0.25, got.g2)
}

func TestPushAccessAgent_PanicsForUnpulledKey(t *testing.T) {
	tb := table.New[lrParam](4)
	push := NewPushAccessAgent(tb, func(cur lrParam, grad float64) lrParam {
		cur.val += grad
		return cur
	})

	assert.Panics(t, func() { push.Apply(42, 1.0) }, "pushing a gradient for a never-pulled key must fail fast")
}
