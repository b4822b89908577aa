package lr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyAdaGrad_MatchesClosedForm(t *testing.T) {
	apply := ApplyAdaGrad(0.1)
	got := apply(Param{}, 0.5)

	wantG2 := 0.25
	wantVal := 0.1 * 0.5 / math.Sqrt(wantG2+adagradEps)
	assert.Equal(t, wantG2, got.G2)
	assert.InDelta(t, wantVal, got.Val, 1e-12)
}

func TestApplyAdaGrad_AccumulatesAcrossCalls(t *testing.T) {
	apply := ApplyAdaGrad(0.1)
	p := Param{}
	p = apply(p, 0.5)
	p = apply(p, 0.5)
	assert.Equal(t, 0.5, p.G2)
}

func TestProject_ReturnsValueOnly(t *testing.T) {
	assert.Equal(t, 3.5, Project(Param{Val: 3.5, G2: 99}))
}
