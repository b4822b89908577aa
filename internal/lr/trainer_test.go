package lr

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatherInstances_UnboundedReadsWholeFile(t *testing.T) {
	data := "1 1 2\n0 2 3\n1 3 4\n"
	src := newLineSource(bufio.NewScanner(strings.NewReader(data)))
	instances := gatherInstances(src, 0, 4)
	require.Len(t, instances, 3)
	assert.True(t, src.atEOF())
}

func TestGatherInstances_BoundedStopsNearMinibatch(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("1 1 2\n")
	}
	src := newLineSource(bufio.NewScanner(strings.NewReader(b.String())))
	instances := gatherInstances(src, 5, 3)
	// At most nthreads-1 lines may be read past the boundary.
	assert.GreaterOrEqual(t, len(instances), 5)
	assert.LessOrEqual(t, len(instances), 5+3-1)
}

func TestKeysOf_Deduplicates(t *testing.T) {
	instances := []Instance{
		{Target: 1, Feas: []Feature{{Key: 1}, {Key: 2}}},
		{Target: 0, Feas: []Feature{{Key: 2}, {Key: 3}}},
	}
	keys := keysOf(instances)
	assert.ElementsMatch(t, []uint64{1, 2, 3}, keys)
}

func TestTrainer_LearnInstanceAccumulatesGradient(t *testing.T) {
	tr := NewTrainer(TrainerConfig{NThreads: 1}, nil, nil, nil)
	tr.cache.SetParam(1, 0.0)
	tr.cache.SetParam(2, 0.0)

	errVal := tr.learnInstance(Instance{Target: 1, Feas: []Feature{{Key: 1, Value: 1}, {Key: 2, Value: 1}}})
	// predict = sigmoid(0) = 0.5, error = 1 - 0.5 = 0.5
	assert.InDelta(t, 0.5, errVal, 1e-9)

	grads := tr.cache.DrainGrads()
	assert.InDelta(t, 0.5, grads[1], 1e-9)
	assert.InDelta(t, 0.5, grads[2], 1e-9)
}
